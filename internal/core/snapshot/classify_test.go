package snapshot

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return doc
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		html string
		want PageKind
	}{
		{
			name: "course view URL",
			url:  "https://portal.example.edu/course/view.php?id=12",
			html: `<html><body></body></html>`,
			want: ModulePage,
		},
		{
			name: "mod path URL",
			url:  "https://portal.example.edu/mod/resource/view.php?id=3",
			html: `<html><body></body></html>`,
			want: ModulePage,
		},
		{
			name: "activity markup without module URL",
			url:  "https://portal.example.edu/some/page",
			html: `<html><body><ul><li class="activity"><a href="/mod/quiz/view.php?id=9">Quiz 1</a></li></ul></body></html>`,
			want: ModulePage,
		},
		{
			name: "result substring in URL",
			url:  "https://portal.example.edu/exam/results",
			html: `<html><body></body></html>`,
			want: ResultsPage,
		},
		{
			name: "unofficial substring in URL is case-insensitive",
			url:  "https://portal.example.edu/UNOFFICIAL/transcript",
			html: `<html><body></body></html>`,
			want: ResultsPage,
		},
		{
			name: "title combines result and unofficial",
			url:  "https://portal.example.edu/page",
			html: `<html><head><title>Unofficial Semester Result</title></head><body></body></html>`,
			want: ResultsPage,
		},
		{
			name: "title with reversed word order",
			url:  "https://portal.example.edu/page",
			html: `<html><head><title>Result (Unofficial)</title></head><body></body></html>`,
			want: ResultsPage,
		},
		{
			name: "pdf link alone means results",
			url:  "https://portal.example.edu/page",
			html: `<html><body><a href="/files/marks.pdf">Marks</a></body></html>`,
			want: ResultsPage,
		},
		{
			name: "plain page falls back to generic",
			url:  "https://portal.example.edu/welcome",
			html: `<html><head><title>Welcome</title></head><body><a href="/news">News</a></body></html>`,
			want: GenericPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.url, parseDoc(t, tt.html)); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

// A page carrying both module and results signals must classify as a
// module page: module rules are evaluated first.
func TestClassify_ModuleWinsOverResults(t *testing.T) {
	html := `<html><head><title>Unofficial Result</title></head><body>
		<li class="activity"><a href="/mod/resource/view.php?id=1">Notes</a></li>
		<a href="/files/result.pdf">Result PDF</a>
	</body></html>`
	got := Classify("https://portal.example.edu/course/view.php?id=1&tab=results", parseDoc(t, html))
	if got != ModulePage {
		t.Errorf("Classify() = %s, want %s", got, ModulePage)
	}
}
