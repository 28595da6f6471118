// Package core drives the check cycle: fetch a section's page, extract
// a canonical snapshot, compare it with the stored baseline, persist
// the result.
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/seckatie/portalwatch/internal/core/db"
	"github.com/seckatie/portalwatch/internal/core/snapshot"
)

// FetchCache dedupes page fetches within a single check run, for the
// case where several sections watch the same URL. It is created per run
// and passed explicitly; nothing in the package holds one globally.
type FetchCache struct {
	pages map[string]FetchResult
}

// NewFetchCache returns an empty per-run cache.
func NewFetchCache() *FetchCache {
	return &FetchCache{pages: make(map[string]FetchResult)}
}

func (c *FetchCache) get(url string) (FetchResult, bool) {
	if c == nil {
		return FetchResult{}, false
	}
	res, ok := c.pages[strings.ToLower(url)]
	return res, ok
}

func (c *FetchCache) put(url string, res FetchResult) {
	if c == nil {
		return
	}
	c.pages[strings.ToLower(url)] = res
}

// CheckRunOptions describes a check run: either a single section by ID,
// or a sweep over sections due for checking.
type CheckRunOptions struct {
	// ID, if non-empty, checks only the section with this ID.
	ID string
	// Limit bounds the number of sections checked in sweep mode.
	// If <= 0, checks all sections.
	Limit int
	// Fetch is passed through to the page fetcher.
	Fetch FetchOptions
}

// CheckRunResult reports the outcome of a check run.
type CheckRunResult struct {
	Checked int
	Changed int
	Failed  int
}

// CheckSection fetches one section's page, extracts its snapshot and
// persists the comparison outcome. It returns whether new content was
// found.
//
// The baseline rule lives here, not in the differ: when the stored
// snapshot is empty this is the first observation, so the fresh
// snapshot is persisted as the baseline without raising the
// new-content flag.
func CheckSection(ctx context.Context, database *db.DB, sec db.Section, cache *FetchCache, opts FetchOptions) (bool, error) {
	res, ok := cache.get(sec.URL)
	if !ok {
		var err error
		res, err = FetchPage(ctx, sec.URL, opts)
		if err != nil {
			return false, fmt.Errorf("failed to fetch %s: %w", sec.URL, err)
		}
		cache.put(sec.URL, res)
	}

	pageURL := res.FinalURL
	if pageURL == "" {
		pageURL = sec.URL
	}
	snap := snapshot.ExtractSnapshot(res.HTML, pageURL)

	changed := snapshot.CompareSnapshots(sec.LastSnapshot, snap)
	firstObservation := len(sec.LastSnapshot) == 0
	newContent := changed && !firstObservation

	if err := database.SaveCheckResult(sec.ID, time.Now(), snap, newContent); err != nil {
		return false, err
	}

	if newContent {
		log.Printf("Section %q has new content (%d items)", sec.Name, len(snap))
	}
	return newContent, nil
}

// RunCheck is the top-level check workflow: single-section mode
// (opts.ID set) or a sequential sweep over sections due for checking.
//
// Sections are processed one at a time and failures are isolated: a
// page that fails to fetch or parse is logged, counted, and never stops
// the remaining sections from being checked.
func RunCheck(ctx context.Context, database *db.DB, opts CheckRunOptions) (CheckRunResult, error) {
	cache := NewFetchCache()

	if opts.ID != "" {
		sec, err := database.GetSection(opts.ID)
		if err != nil {
			return CheckRunResult{}, err
		}
		changed, err := CheckSection(ctx, database, sec, cache, opts.Fetch)
		if err != nil {
			return CheckRunResult{Checked: 1, Failed: 1}, err
		}
		res := CheckRunResult{Checked: 1}
		if changed {
			res.Changed = 1
		}
		return res, nil
	}

	sections, err := database.ListSectionsToCheck(opts.Limit)
	if err != nil {
		return CheckRunResult{}, err
	}
	if len(sections) == 0 {
		log.Println("No sections to check.")
		return CheckRunResult{}, nil
	}

	log.Printf("Checking %d section(s)...", len(sections))
	var res CheckRunResult
	for _, sec := range sections {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Checked++
		changed, err := CheckSection(ctx, database, sec, cache, opts.Fetch)
		if err != nil {
			res.Failed++
			log.Printf("Check failed for id=%s url=%s: %v", sec.ID, sec.URL, err)
			continue
		}
		if changed {
			res.Changed++
		}
	}

	log.Printf("Check finished: %d checked, %d with new content, %d failed.", res.Checked, res.Changed, res.Failed)
	return res, nil
}
