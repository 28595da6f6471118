package db

import "github.com/seckatie/portalwatch/internal/core/snapshot"

// Section is a user-saved page on the portal.
type Section struct {
	// ID is a UUID assigned at creation.
	ID   string
	Name string
	URL  string
	// HasNew is set when a check finds new content and cleared when the
	// user marks the section as seen.
	HasNew bool
	// LastSnapshot is the canonical snapshot from the most recent check.
	// Empty until the first successful check.
	LastSnapshot snapshot.Snapshot
	// LastChecked is stored as RFC3339 text, empty if never checked.
	LastChecked string
	// CreatedAt is stored as RFC3339 text.
	CreatedAt string
}
