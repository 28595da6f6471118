package db

import "log"

// ------------------------------
// Event System
// ------------------------------
//
// The DB emits typed events when sections are created, updated, deleted,
// checked, or marked seen. Register listeners to react to these changes.
//
// Example usage:
//
//	database.RegisterEventListener(db.OnSectionCreatedEvent, func(event db.Event) error {
//	    ev := event.(db.SectionCreatedEvent)
//	    log.Printf("New section: %s - %s", ev.Section.ID, ev.Section.URL)
//	    // Queue a baseline check here
//	    return nil
//	})

// Event is the common interface for all database events.
type Event interface {
	Kind() EventKind
}

// EventKind represents all the kinds of events that can be emitted by the DB.
type EventKind int

const (
	// OnSectionCreatedEvent is emitted when a section is created.
	OnSectionCreatedEvent EventKind = iota
	// OnSectionDeletedEvent is emitted when a section is deleted.
	OnSectionDeletedEvent
	// OnSectionUpdatedEvent is emitted when a section is updated.
	OnSectionUpdatedEvent
	// OnCheckResultSavedEvent is emitted when a check result is saved.
	OnCheckResultSavedEvent
	// OnSectionSeenEvent is emitted when a section's new-content flag is cleared.
	OnSectionSeenEvent
	// OnSectionCheckRequestedEvent is emitted when a manual re-check is requested.
	OnSectionCheckRequestedEvent
)

func (k EventKind) String() string {
	switch k {
	case OnSectionCreatedEvent:
		return "section_created"
	case OnSectionDeletedEvent:
		return "section_deleted"
	case OnSectionUpdatedEvent:
		return "section_updated"
	case OnCheckResultSavedEvent:
		return "check_result_saved"
	case OnSectionSeenEvent:
		return "section_seen"
	case OnSectionCheckRequestedEvent:
		return "section_check_requested"
	default:
		return "unknown"
	}
}

// SectionCreatedEvent is emitted after a new section is successfully inserted.
type SectionCreatedEvent struct {
	Section Section
}

func (e SectionCreatedEvent) Kind() EventKind { return OnSectionCreatedEvent }

// SectionUpdatedEvent is emitted after a section's name or URL is updated.
type SectionUpdatedEvent struct {
	Section Section
}

func (e SectionUpdatedEvent) Kind() EventKind { return OnSectionUpdatedEvent }

// SectionDeletedEvent is emitted after a section is deleted.
// The Section field contains the state before deletion (if available).
type SectionDeletedEvent struct {
	Section Section
}

func (e SectionDeletedEvent) Kind() EventKind { return OnSectionDeletedEvent }

// CheckResultSavedEvent is emitted after a check result is saved.
type CheckResultSavedEvent struct {
	SectionID string
	// NewContent is true when the check found content absent from the
	// previous baseline (first observations don't count).
	NewContent bool
}

func (e CheckResultSavedEvent) Kind() EventKind { return OnCheckResultSavedEvent }

// SectionSeenEvent is emitted after a section's new-content flag is cleared.
type SectionSeenEvent struct {
	SectionID string
}

func (e SectionSeenEvent) Kind() EventKind { return OnSectionSeenEvent }

// SectionCheckRequestedEvent is emitted when a manual re-check is requested,
// so the running checker can queue the section.
type SectionCheckRequestedEvent struct {
	Section Section
}

func (e SectionCheckRequestedEvent) Kind() EventKind { return OnSectionCheckRequestedEvent }

// EventListener is a callback that handles events of a specific kind.
type EventListener func(event Event) error

// RegisterEventListener adds a listener for a specific event kind.
// Listeners are called synchronously in registration order after the DB operation succeeds.
func (db *DB) RegisterEventListener(eventKind EventKind, listener EventListener) {
	if db.eventListeners == nil {
		db.eventListeners = make(map[EventKind][]EventListener)
	}
	db.eventListeners[eventKind] = append(db.eventListeners[eventKind], listener)
}

// emit dispatches an event to all registered listeners for that event kind.
func (db *DB) emit(event Event) {
	for _, listener := range db.eventListeners[event.Kind()] {
		if err := listener(event); err != nil {
			log.Printf("Event listener error for %s: %v", event.Kind(), err)
		}
	}
}
