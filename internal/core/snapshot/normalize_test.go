package snapshot

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Run("drops duplicate identities keeping the first occurrence", func(t *testing.T) {
		raw := []Item{
			{Name: "First", URL: "https://x/a"},
			{Name: "Second", URL: "https://x/a"},
			{Name: "Other", URL: "https://x/b"},
		}
		snap := Normalize(raw)
		if len(snap) != 2 {
			t.Fatalf("expected 2 items, got %d", len(snap))
		}
		for _, it := range snap {
			if it.URL == "https://x/a" && it.Name != "First" {
				t.Errorf("expected first occurrence to win, got %q", it.Name)
			}
		}
	})

	t.Run("dedup is case-insensitive", func(t *testing.T) {
		raw := []Item{
			{Name: "Upper", URL: "https://X/A.PDF"},
			{Name: "Lower", URL: "https://x/a.pdf"},
		}
		if snap := Normalize(raw); len(snap) != 1 {
			t.Errorf("expected 1 item, got %d", len(snap))
		}
	})

	t.Run("drops unidentifiable items", func(t *testing.T) {
		raw := []Item{
			StringItem("   "),
			{Name: "Kept", URL: "https://x/a"},
		}
		snap := Normalize(raw)
		if len(snap) != 1 || snap[0].Name != "Kept" {
			t.Errorf("expected only the identifiable item, got %+v", snap)
		}
	})

	t.Run("sorts by identity", func(t *testing.T) {
		raw := []Item{
			{Name: "c", URL: "https://x/c"},
			{Name: "a", URL: "https://x/a"},
			{Name: "b", URL: "https://x/b"},
		}
		snap := Normalize(raw)
		for i, want := range []string{"a", "b", "c"} {
			if snap[i].Name != want {
				t.Errorf("position %d: expected %q, got %q", i, want, snap[i].Name)
			}
		}
	})

	t.Run("empty input yields empty snapshot", func(t *testing.T) {
		if snap := Normalize(nil); len(snap) != 0 {
			t.Errorf("expected empty snapshot, got %d items", len(snap))
		}
	})
}

// Normalizing an already canonical snapshot must be a no-op.
func TestNormalize_Idempotent(t *testing.T) {
	raw := []Item{
		{Name: "B", URL: "https://x/b"},
		{Name: "A", URL: "https://x/a"},
		{Name: "Notice text", Type: TypeNotice},
		{Name: "A dup", URL: "https://x/a"},
		StringItem("https://x/legacy"),
	}
	once := Normalize(raw)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize is not idempotent:\n once: %+v\ntwice: %+v", once, twice)
	}
}

// Canonical snapshots must not depend on DOM traversal order: any
// permutation of the raw items normalizes to the same sequence.
func TestNormalize_OrderIndependent(t *testing.T) {
	raw := []Item{
		{Name: "Doc", URL: "https://x/doc.pdf", Type: TypePDF},
		{Name: "Activity", URL: "https://x/mod/1", Type: TypeActivity},
		{Name: "Exam schedule", Type: TypeNotice},
		{Name: "Results", URL: "https://x/results.pdf", Type: TypeResult},
		StringItem("https://x/legacy"),
	}
	want := Normalize(raw)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		perm := make([]Item, len(raw))
		for j, k := range rng.Perm(len(raw)) {
			perm[j] = raw[k]
		}
		if got := Normalize(perm); !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d normalized differently:\n got: %+v\nwant: %+v", i, got, want)
		}
	}
}
