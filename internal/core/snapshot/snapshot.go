package snapshot

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractSnapshot turns raw page markup into a canonical snapshot:
// classify the page, run the matching extractor, normalize the result.
//
// It never fails. Parse errors (and any panic escaping a selector walk
// on malformed markup) are contained here and yield an empty snapshot,
// so a single broken page cannot abort a check run covering other
// sections.
func ExtractSnapshot(html, pageURL string) (snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("snapshot: extraction failed for %s: %v", pageURL, r)
			snap = Snapshot{}
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("snapshot: parse failed for %s: %v", pageURL, err)
		return Snapshot{}
	}

	base := documentBase(doc, pageURL)

	var raw []Item
	switch Classify(pageURL, doc) {
	case ModulePage:
		raw = extractModule(doc, base)
	case ResultsPage:
		raw = extractResults(doc, base)
	default:
		raw = extractGeneric(doc, base)
	}

	return Normalize(raw)
}

// CompareSnapshots reports whether newSnap contains content absent from
// oldSnap. Alias for HasChanges, kept as the stable surface other
// packages call.
func CompareSnapshots(oldSnap, newSnap Snapshot) bool {
	return HasChanges(oldSnap, newSnap)
}

// CreateStableSnapshot normalizes a raw item sequence into the canonical
// form used for persistence and comparison.
func CreateStableSnapshot(raw []Item) Snapshot {
	return Normalize(raw)
}
