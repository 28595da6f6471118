package snapshot

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// defaultOrigin anchors relative references when a page carries no
// usable base URI of its own.
const defaultOrigin = "https://portal.example.edu"

// noticeSelector matches the boxes the portal wraps around notices and
// announcements on course pages.
const noticeSelector = ".notice, .announcement, [class*='notice'], [class*='announcement']"

// resultsSelector is the wider net used on results pages, where the
// portal also tags blocks with result-flavored class names.
const resultsSelector = ".announcement, .notice, [class*='result'], [class*='announcement'], [class*='notice']"

// navStoplist holds pure navigation link texts the generic extractor
// skips (exact match after lower-casing).
var navStoplist = map[string]struct{}{
	"home":     {},
	"back":     {},
	"next":     {},
	"previous": {},
	"menu":     {},
	"login":    {},
	"logout":   {},
}

// seenSet guards a single extraction pass against emitting the same
// logical item twice. Keys are case-folded URLs, or namespaced text for
// non-linked items (e.g. "notice|<lowercased title>").
type seenSet map[string]struct{}

// add records key and reports whether it was new.
func (s seenSet) add(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

// extractModule scans a course/module page: PDF links, activity and
// resource instances, file-flavored links, and notice headings.
func extractModule(doc *goquery.Document, base *url.URL) []Item {
	seen := make(seenSet)
	items := scanPDFLinks(doc, base, seen, TypePDF, "PDF Document")

	doc.Find(activitySelector).Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a[href]").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		abs := resolveRef(base, href)
		if abs == "" || !seen.add(abs) {
			return
		}
		name := collapseSpace(link.Text())
		if name == "" {
			name = collapseSpace(s.Text())
		}
		if name == "" {
			name = lastPathSegment(abs)
		}
		if name == "" {
			name = "Activity"
		}
		items = append(items, Item{Name: name, URL: abs, Type: TypeActivity})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		if !strings.Contains(lower, "file") &&
			!strings.Contains(lower, "resource") &&
			!strings.Contains(lower, "download") {
			return
		}
		abs := resolveRef(base, href)
		// PDF links were already captured above; the seen set drops them here.
		if abs == "" || !seen.add(abs) {
			return
		}
		name := collapseSpace(s.Text())
		if name == "" {
			name = lastPathSegment(abs)
		}
		items = append(items, Item{Name: name, URL: abs, Type: TypeFile})
	})

	doc.Find(noticeSelector).Each(func(_ int, s *goquery.Selection) {
		heading := s.Find("h1, h2, h3, h4, h5, h6, strong, .title").First()
		title := collapseSpace(heading.Text())
		if title == "" {
			return
		}
		if !seen.add("notice|" + title) {
			return
		}
		items = append(items, Item{Name: title, Type: TypeNotice})
	})

	return items
}

// extractResults scans a results page: result PDFs plus short
// announcement blocks.
func extractResults(doc *goquery.Document, base *url.URL) []Item {
	seen := make(seenSet)
	items := scanPDFLinks(doc, base, seen, TypeResult, "Result PDF")

	doc.Find(resultsSelector).Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if n := utf8.RuneCountInString(text); n < 10 || n > 200 {
			return
		}
		if !seen.add("announcement|" + text) {
			return
		}
		items = append(items, Item{Name: text, Type: TypeAnnouncement})
	})

	return items
}

// extractGeneric is the fallback strategy: PDF links, content-looking
// links, and top-level headings.
func extractGeneric(doc *goquery.Document, base *url.URL) []Item {
	seen := make(seenSet)
	items := scanPDFLinks(doc, base, seen, TypePDF, "PDF Document")

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if n := utf8.RuneCountInString(text); n < 3 || n > 200 {
			return
		}
		if _, nav := navStoplist[strings.ToLower(text)]; nav {
			return
		}
		href, _ := s.Attr("href")
		abs := resolveRef(base, href)
		if abs == "" || !seen.add(abs) {
			return
		}
		items = append(items, Item{Name: text, URL: abs, Type: TypeLink})
	})

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if n := utf8.RuneCountInString(text); n < 3 || n > 200 {
			return
		}
		if !seen.add("heading|" + text) {
			return
		}
		items = append(items, Item{Name: text, Type: TypeHeading})
	})

	return items
}

// scanPDFLinks emits one item per distinct PDF link in the document.
// The name is chosen from link text, then title/aria-label attributes,
// then the last URL path segment, then fallback.
func scanPDFLinks(doc *goquery.Document, base *url.URL, seen seenSet, typ, fallback string) []Item {
	var items []Item
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !isPDFRef(href) {
			return
		}
		abs := resolveRef(base, href)
		if abs == "" || !seen.add(abs) {
			return
		}
		items = append(items, Item{Name: pdfName(s, abs, fallback), URL: abs, Type: typ})
	})
	return items
}

func pdfName(s *goquery.Selection, abs, fallback string) string {
	if t := collapseSpace(s.Text()); t != "" {
		return t
	}
	for _, attr := range []string{"title", "aria-label"} {
		if t, ok := s.Attr(attr); ok {
			if t = collapseSpace(t); t != "" {
				return t
			}
		}
	}
	if seg := lastPathSegment(abs); seg != "" {
		return seg
	}
	return fallback
}

// isPDFRef reports whether a reference points at a PDF, ignoring any
// query string or fragment.
func isPDFRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	return strings.HasSuffix(strings.ToLower(ref), ".pdf")
}

// documentBase resolves the base URL for relative references: the
// document's <base href> if present, else the page URL, else the
// canonical portal origin.
func documentBase(doc *goquery.Document, pageURL string) *url.URL {
	base, _ := url.Parse(defaultOrigin)
	if page, err := url.Parse(strings.TrimSpace(pageURL)); err == nil && page.Host != "" {
		base = page
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}
	return base
}

// resolveRef resolves a possibly relative reference against base.
// Non-navigable schemes and bare fragments resolve to "".
func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return ""
	}
	for _, scheme := range []string{"data:", "javascript:", "mailto:", "tel:"} {
		if strings.HasPrefix(strings.ToLower(ref), scheme) {
			return ""
		}
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(refURL).String()
}

func lastPathSegment(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	return segs[len(segs)-1]
}

func urlPath(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return u.Path
}

// collapseSpace trims and collapses runs of whitespace to single spaces,
// matching how browsers render visible text.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
