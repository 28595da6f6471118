package snapshot

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageKind selects which extraction strategy applies to a fetched page.
type PageKind int

const (
	ModulePage PageKind = iota
	ResultsPage
	GenericPage
)

func (k PageKind) String() string {
	switch k {
	case ModulePage:
		return "module"
	case ResultsPage:
		return "results"
	case GenericPage:
		return "generic"
	default:
		return "unknown"
	}
}

var (
	reModulePath   = regexp.MustCompile(`(?i)/course/view|/mod/|module`)
	reResultsTitle = regexp.MustCompile(`(?i)unofficial.*result|result.*unofficial`)
)

// activitySelector matches the containers the portal renders around
// activity, resource and folder instances on course pages.
const activitySelector = "li.activity, .activityinstance, .modtype_resource, .modtype_folder, [class*='activityinstance']"

// Classify picks the extraction strategy for a fetched document. The
// portal exposes no stable page-type marker, so each kind is recognized
// by several OR-combined signals (URL shape, DOM class names, title
// text, presence of PDF links) to maximize recall. Rules are evaluated
// in order and the first match wins; module pages take priority over
// results pages. Misclassification only degrades extraction
// completeness — the generic strategy is a safe fallback.
func Classify(pageURL string, doc *goquery.Document) PageKind {
	if reModulePath.MatchString(urlPath(pageURL)) || doc.Find(activitySelector).Length() > 0 {
		return ModulePage
	}

	lower := strings.ToLower(pageURL)
	if strings.Contains(lower, "unofficial") || strings.Contains(lower, "result") {
		return ResultsPage
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if reResultsTitle.MatchString(title) {
		return ResultsPage
	}
	if hasPDFLink(doc) {
		return ResultsPage
	}

	return GenericPage
}

func hasPDFLink(doc *goquery.Document) bool {
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if isPDFRef(href) {
			found = true
			return false
		}
		return true
	})
	return found
}
