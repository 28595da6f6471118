package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IdentityOf derives the stable identity string for an item. It is total
// and deterministic: it never fails, and only a degenerate item (e.g. a
// whitespace-only legacy string) yields an empty identity, in which case
// the item is unidentifiable and gets dropped during normalization.
//
// URLs make the most stable identity because they survive re-rendered
// text and whitespace; name is the best fallback for non-linked content
// such as headings and notices. The chain below is evaluated in priority
// order, first match wins.
func IdentityOf(it Item) string {
	if it.IsString() {
		return strings.TrimSpace(it.raw)
	}
	if u := strings.TrimSpace(it.URL); u != "" {
		return u
	}
	if n := strings.TrimSpace(it.Name); n != "" {
		return n
	}
	if it.ID != "" {
		return it.ID
	}
	if it.Text != "" {
		return it.Text
	}

	// Synthesize from whatever fields are present, joined with "|".
	var parts []string
	for _, f := range []string{it.Type, it.Name, it.URL} {
		if s := strings.TrimSpace(f); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "|")
	}

	// Nothing usable: serialize the whole item as a last resort.
	if b, err := json.Marshal(it); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%+v", it)
}

// identityKey is the case-folded form of an item's identity. All equality
// checks across snapshots go through this, since URLs and names compare
// case-insensitively.
func identityKey(it Item) string {
	return strings.ToLower(IdentityOf(it))
}

// identitySet returns the set of folded identities present in a snapshot.
func identitySet(s Snapshot) map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, it := range s {
		if key := identityKey(it); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}
