package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/seckatie/portalwatch/internal/core/snapshot"
)

// ErrInvalidURL is returned when a section URL fails validation.
var ErrInvalidURL = errors.New("invalid URL")

// ValidateSectionURL validates that a URL is acceptable for watching.
// It requires an http or https scheme and a non-empty host.
func ValidateSectionURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

const sectionColumns = `id, name, url, has_new, last_snapshot, COALESCE(last_checked, ''), created_at`

func scanSection(row interface{ Scan(...any) error }) (Section, error) {
	var s Section
	var snapJSON string
	if err := row.Scan(&s.ID, &s.Name, &s.URL, &s.HasNew, &snapJSON, &s.LastChecked, &s.CreatedAt); err != nil {
		return Section{}, err
	}
	if snapJSON != "" {
		if err := json.Unmarshal([]byte(snapJSON), &s.LastSnapshot); err != nil {
			// A corrupt stored snapshot degrades to an empty baseline
			// rather than wedging the section.
			log.Printf("failed to decode stored snapshot for section %s: %v", s.ID, err)
			s.LastSnapshot = nil
		}
	}
	return s, nil
}

func (db *DB) GetSection(id string) (Section, error) {
	row := db.db.QueryRow("SELECT "+sectionColumns+" FROM sections WHERE id = ?", id)
	s, err := scanSection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Section{}, fmt.Errorf("section not found: %s", id)
		}
		return Section{}, fmt.Errorf("failed to get section: %w", err)
	}
	return s, nil
}

// AddSection stores a new watched section and returns it with its
// assigned UUID. Emits a SectionCreatedEvent after a successful insert.
func (db *DB) AddSection(name, urlStr string) (Section, error) {
	if err := ValidateSectionURL(urlStr); err != nil {
		return Section{}, err
	}
	if name == "" {
		name = urlStr
	}

	s := Section{
		ID:        uuid.NewString(),
		Name:      name,
		URL:       urlStr,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	_, err := db.db.Exec(
		"INSERT INTO sections (id, name, url, has_new, last_snapshot, created_at) VALUES (?, ?, ?, 0, '[]', ?)",
		s.ID, s.Name, s.URL, s.CreatedAt,
	)
	if err != nil {
		return Section{}, fmt.Errorf("failed to add section: %w", err)
	}

	db.emit(SectionCreatedEvent{Section: s})
	return s, nil
}

func (db *DB) ListSections(limit int) ([]Section, error) {
	query := "SELECT " + sectionColumns + " FROM sections ORDER BY created_at DESC"
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var out []Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// UpdateSection updates a section's name and URL.
// Emits a SectionUpdatedEvent after a successful update.
func (db *DB) UpdateSection(id, name, urlStr string) error {
	if err := ValidateSectionURL(urlStr); err != nil {
		return err
	}

	res, err := db.db.Exec("UPDATE sections SET name = ?, url = ? WHERE id = ?", name, urlStr, id)
	if err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("section not found: %s", id)
	}

	if s, err := db.GetSection(id); err == nil {
		db.emit(SectionUpdatedEvent{Section: s})
	}
	return nil
}

// DeleteSection removes a section and its stored snapshot.
// Emits a SectionDeletedEvent after a successful delete.
func (db *DB) DeleteSection(id string) error {
	s, _ := db.GetSection(id)

	res, err := db.db.Exec("DELETE FROM sections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("section not found: %s", id)
	}

	if s.ID == "" {
		s.ID = id
	}
	db.emit(SectionDeletedEvent{Section: s})
	return nil
}

// marshalSnapshot encodes a snapshot for storage. An empty or nil
// snapshot stores as the empty JSON array.
func marshalSnapshot(snap snapshot.Snapshot) (string, error) {
	if len(snap) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}
