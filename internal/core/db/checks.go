package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/seckatie/portalwatch/internal/core/snapshot"
)

// ListSectionsToCheck returns sections in check priority order:
// never-checked sections first, then the ones checked longest ago.
func (db *DB) ListSectionsToCheck(limit int) ([]Section, error) {
	query := "SELECT " + sectionColumns + ` FROM sections
		ORDER BY last_checked IS NOT NULL, last_checked ASC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sections to check: %w", err)
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

// SaveCheckResult stores the outcome of one check: the new canonical
// snapshot becomes the stored baseline and the check timestamp is
// updated. has_new is sticky — it is raised when newContent is true and
// only cleared by MarkSectionSeen.
// Emits a CheckResultSavedEvent after a successful save.
func (db *DB) SaveCheckResult(id string, checkedAt time.Time, snap snapshot.Snapshot, newContent bool) error {
	snapJSON, err := marshalSnapshot(snap)
	if err != nil {
		return err
	}

	res, err := db.db.Exec(`
		UPDATE sections
		SET
			last_snapshot = ?,
			last_checked = ?,
			has_new = has_new | ?
		WHERE id = ?
	`, snapJSON, checkedAt.Format(time.RFC3339), boolToInt(newContent), id)
	if err != nil {
		return fmt.Errorf("failed to save check result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("section not found: %s", id)
	}

	db.emit(CheckResultSavedEvent{SectionID: id, NewContent: newContent})
	return nil
}

// MarkSectionSeen clears a section's new-content flag.
// Emits a SectionSeenEvent after a successful update.
func (db *DB) MarkSectionSeen(id string) error {
	res, err := db.db.Exec("UPDATE sections SET has_new = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark section seen: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("section not found: %s", id)
	}

	db.emit(SectionSeenEvent{SectionID: id})
	return nil
}

// RequestSectionCheck asks the running checker to re-check one section
// out of schedule. It verifies the section exists, then emits a
// SectionCheckRequestedEvent for the daemon's work queue.
func (db *DB) RequestSectionCheck(id string) error {
	s, err := db.GetSection(id)
	if err != nil {
		return err
	}
	db.emit(SectionCheckRequestedEvent{Section: s})
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
