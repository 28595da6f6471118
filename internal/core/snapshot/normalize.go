package snapshot

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Normalize builds the canonical form of a raw item sequence: items are
// deduplicated by folded identity (first occurrence wins, later
// duplicates are discarded rather than merged) and then sorted by
// identity using locale-aware collation.
//
// The total order matters: extractors walk the DOM in whatever order
// selector matches come back, so two extractions of identical content
// can produce differently ordered raw sequences. Sorting by identity
// makes canonical snapshots of equal content compare field-for-field
// equal, which is what lets the differ stay a plain set comparison.
func Normalize(raw []Item) Snapshot {
	index := make(map[string]Item, len(raw))
	keys := make([]string, 0, len(raw))
	for _, it := range raw {
		key := identityKey(it)
		if key == "" {
			// Unidentifiable, nothing to compare it by later.
			continue
		}
		if _, seen := index[key]; seen {
			continue
		}
		index[key] = it
		keys = append(keys, key)
	}

	// A fresh collator per call: Collator carries internal buffers and
	// the package promises no shared mutable state across invocations.
	c := collate.New(language.Und)
	sort.Slice(keys, func(i, j int) bool {
		return c.CompareString(keys[i], keys[j]) < 0
	})

	out := make(Snapshot, 0, len(keys))
	for _, key := range keys {
		out = append(out, index[key])
	}
	return out
}
