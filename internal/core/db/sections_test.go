package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// TestValidateSectionURL tests URL validation.
func TestValidateSectionURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://portal.example.edu/course/view.php?id=1", false},
		{"valid http", "http://portal.example.edu/", false},
		{"empty", "", true},
		{"missing scheme", "portal.example.edu/page", true},
		{"unsupported scheme", "ftp://portal.example.edu/", true},
		{"missing host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSectionURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("expected ErrInvalidURL, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

// TestAddSection tests section creation.
func TestAddSection(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	t.Run("creates section with a uuid", func(t *testing.T) {
		s, err := db.AddSection("Algorithms", "https://portal.example.edu/course/view.php?id=1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := uuid.Parse(s.ID); err != nil {
			t.Errorf("expected valid UUID id, got %q", s.ID)
		}
		if s.HasNew {
			t.Error("expected new section to start without the new-content flag")
		}
		if len(s.LastSnapshot) != 0 {
			t.Error("expected new section to start with an empty snapshot")
		}
	})

	t.Run("falls back to the URL as name", func(t *testing.T) {
		s, err := db.AddSection("", "https://portal.example.edu/results")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.Name != "https://portal.example.edu/results" {
			t.Errorf("expected URL fallback name, got %q", s.Name)
		}
	})

	t.Run("rejects invalid URLs", func(t *testing.T) {
		_, err := db.AddSection("Bad", "not-a-url")
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})
}

// TestGetSection tests retrieving a single section.
func TestGetSection(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	t.Run("retrieves existing section", func(t *testing.T) {
		created, _ := db.AddSection("Algorithms", "https://portal.example.edu/course/view.php?id=1")

		s, err := db.GetSection(created.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.ID != created.ID {
			t.Errorf("expected ID %s, got %s", created.ID, s.ID)
		}
		if s.URL != "https://portal.example.edu/course/view.php?id=1" {
			t.Errorf("unexpected URL %q", s.URL)
		}
		if s.CreatedAt == "" {
			t.Error("expected CreatedAt to be set")
		}
		if s.LastChecked != "" {
			t.Error("expected LastChecked to be empty before first check")
		}
	})

	t.Run("returns error for non-existent section", func(t *testing.T) {
		_, err := db.GetSection(uuid.NewString())
		if err == nil {
			t.Error("expected error for non-existent section, got nil")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})
}

// TestListSections tests listing sections.
func TestListSections(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	t.Run("returns empty list when no sections", func(t *testing.T) {
		sections, err := db.ListSections(0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sections) != 0 {
			t.Errorf("expected empty list, got %d items", len(sections))
		}
	})

	t.Run("returns all sections", func(t *testing.T) {
		db.AddSection("A", "https://portal.example.edu/a")
		db.AddSection("B", "https://portal.example.edu/b")
		db.AddSection("C", "https://portal.example.edu/c")

		sections, err := db.ListSections(0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sections) != 3 {
			t.Errorf("expected 3 sections, got %d", len(sections))
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		sections, err := db.ListSections(2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sections) != 2 {
			t.Errorf("expected 2 sections with limit, got %d", len(sections))
		}
	})
}

// TestUpdateSection tests updating a section.
func TestUpdateSection(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	t.Run("updates name and url", func(t *testing.T) {
		s, _ := db.AddSection("Old", "https://portal.example.edu/old")

		if err := db.UpdateSection(s.ID, "New", "https://portal.example.edu/new"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, _ := db.GetSection(s.ID)
		if got.Name != "New" || got.URL != "https://portal.example.edu/new" {
			t.Errorf("update not applied: %+v", got)
		}
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		s, _ := db.AddSection("X", "https://portal.example.edu/x")
		if err := db.UpdateSection(s.ID, "X", "garbage"); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("returns error for non-existent section", func(t *testing.T) {
		err := db.UpdateSection(uuid.NewString(), "X", "https://portal.example.edu/x")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})
}

// TestDeleteSection tests removing a section.
func TestDeleteSection(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	t.Run("deletes existing section", func(t *testing.T) {
		s, _ := db.AddSection("Doomed", "https://portal.example.edu/doomed")

		if err := db.DeleteSection(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := db.GetSection(s.ID); err == nil {
			t.Error("expected section to be gone")
		}
	})

	t.Run("returns error for non-existent section", func(t *testing.T) {
		err := db.DeleteSection(uuid.NewString())
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})
}
