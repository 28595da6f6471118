// Package snapshot turns fetched portal pages into stable, comparable
// snapshots of their meaningful content and decides whether new content
// has appeared between two snapshots.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Item type tags. The set is fixed; extractors never emit anything else.
const (
	TypePDF          = "pdf"
	TypeActivity     = "activity"
	TypeFile         = "file"
	TypeNotice       = "notice"
	TypeResult       = "result"
	TypeAnnouncement = "announcement"
	TypeLink         = "link"
	TypeHeading      = "heading"
)

// Item is one piece of page content worth tracking.
//
// Extractors populate Name, URL and Type. ID and Text only occur in
// snapshots persisted by older versions; they still participate in
// identity resolution so old baselines keep comparing correctly.
type Item struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
	Text string `json:"text,omitempty"`

	// raw holds a legacy bare-string item. When set, all other fields
	// are empty and the item round-trips through JSON as a plain string.
	raw string
}

// StringItem wraps a legacy bare-string item.
func StringItem(s string) Item { return Item{raw: s} }

// IsString reports whether the item is a legacy bare-string item.
func (it Item) IsString() bool { return it.raw != "" }

// Snapshot is an ordered sequence of items describing the observed state
// of one section page. Only canonical snapshots (see Normalize) are
// persisted.
type Snapshot []Item

// MarshalJSON emits legacy bare-string items as plain JSON strings so
// persisted snapshots stay readable by older releases.
func (it Item) MarshalJSON() ([]byte, error) {
	if it.raw != "" {
		return json.Marshal(it.raw)
	}
	type plain Item
	return json.Marshal(plain(it))
}

// UnmarshalJSON accepts either the structured item shape or a legacy
// bare string. A numeric id field is stringified.
func (it *Item) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*it = Item{raw: s}
		return nil
	}

	var aux struct {
		Name string `json:"name"`
		URL  string `json:"url"`
		Type string `json:"type"`
		ID   any    `json:"id"`
		Text string `json:"text"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&aux); err != nil {
		return err
	}
	*it = Item{
		Name: aux.Name,
		URL:  aux.URL,
		Type: aux.Type,
		Text: aux.Text,
	}
	if aux.ID != nil {
		it.ID = fmt.Sprint(aux.ID)
	}
	return nil
}
