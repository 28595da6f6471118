package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// FetchOptions controls how a section page is fetched.
type FetchOptions struct {
	// SessionCookie is sent as the Cookie header so the portal serves
	// authenticated pages. Obtaining it is the user's problem.
	SessionCookie string
	// Timeout is the per-page deadline. If <= 0, a default is used.
	Timeout time.Duration
	// Rendered fetches through a real Chrome/Chromium browser (via the
	// DevTools protocol) so JS-heavy pages render before capture.
	Rendered bool
	// ChromePath optionally overrides the browser executable path.
	ChromePath string
	// WaitSelector optionally waits for a CSS selector to become visible
	// before capturing a rendered page.
	WaitSelector string
}

// FetchResult is the captured state of one fetched page.
type FetchResult struct {
	// FinalURL is the URL after redirects.
	FinalURL string
	// Title is the document title if available (may be empty).
	Title string
	// HTML is the raw document markup.
	HTML string
}

// FetchPage retrieves a section page, either with a plain HTTP GET or a
// rendered browser capture depending on opts.
func FetchPage(ctx context.Context, url string, opts FetchOptions) (FetchResult, error) {
	if opts.Rendered {
		return fetchRendered(ctx, url, opts)
	}
	return fetchPlain(ctx, url, opts)
}

func fetchPlain(ctx context.Context, url string, opts FetchOptions) (FetchResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if opts.SessionCookie != "" {
		req.Header.Set("Cookie", opts.SessionCookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FetchResult{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	html := string(body)
	return FetchResult{
		FinalURL: resp.Request.URL.String(),
		Title:    titleFromHTML(html),
		HTML:     html,
	}, nil
}

// fetchRendered loads a URL in Chrome and returns the final rendered HTML.
//
// It navigates, waits for network idle and <body> (plus WaitSelector if
// set), then captures final URL, document.title and the <html> outerHTML.
func fetchRendered(ctx context.Context, url string, opts FetchOptions) (FetchResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}

	allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocatorOpts = append(allocatorOpts,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Headless,
	)
	if opts.ChromePath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var html, title, finalURL string

	navigateAndSettle := func(ctx context.Context) error {
		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}
		if opts.SessionCookie != "" {
			headers := network.Headers{"Cookie": opts.SessionCookie}
			if err := network.SetExtraHTTPHeaders(headers).Do(ctx); err != nil {
				return err
			}
		}

		idle := make(chan struct{})
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		})

		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}
		select {
		case <-idle:
			log.Printf("Network idle reached for %s", url)
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}

	actions := []chromedp.Action{
		chromedp.ActionFunc(navigateAndSettle),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if strings.TrimSpace(opts.WaitSelector) != "" {
		actions = append(actions, chromedp.WaitVisible(opts.WaitSelector, chromedp.ByQuery))
	}
	// Small delay to allow any final JS execution after network idle
	actions = append(actions,
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return FetchResult{}, err
	}

	// Some pages set a blank title; fall back to parsing the HTML.
	if strings.TrimSpace(title) == "" {
		title = titleFromHTML(html)
	}

	return FetchResult{
		FinalURL: finalURL,
		Title:    title,
		HTML:     html,
	}, nil
}

func titleFromHTML(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
