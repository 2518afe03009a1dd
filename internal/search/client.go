// Package search queries the DuckDuckGo HTML endpoint for public web
// results. It is an enrichment dependency: callers treat failures as
// degraded output, not hard errors.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	defaultEndpoint   = "https://html.duckduckgo.com/html/"
	defaultRegion     = "wt-wt"
	defaultMaxResults = 10
	defaultPause      = 300 * time.Millisecond
	userAgent         = "sc2-backend/placement-assistant"
)

// Patchable in tests.
var sleep = time.Sleep

// Result is one organic search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Client posts queries to a DuckDuckGo HTML endpoint and scrapes the
// result list. Fields are exported so tests can point the client at a
// local server.
type Client struct {
	HTTPClient *http.Client
	Endpoint   string
	UserAgent  string
	Region     string
	MaxResults int
	// Pause is the minimum delay between consecutive requests.
	Pause time.Duration

	logger *zap.Logger

	mu       sync.Mutex
	nextSend time.Time
}

func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Endpoint:   defaultEndpoint,
		UserAgent:  userAgent,
		Region:     defaultRegion,
		MaxResults: defaultMaxResults,
		Pause:      defaultPause,
		logger:     logger,
	}
}

// Search runs one query and returns the organic results, capped at
// MaxResults. Consecutive calls are spaced Pause apart.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	form := url.Values{
		"q":  {query},
		"kl": {c.Region},
		"df": {""},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)

	c.logger.Debug("search request", zap.String("query", query))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned status %s", resp.Status)
	}

	results, err := parseResults(resp.Body, c.MaxResults)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("search response",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// throttle reserves the next send slot and waits for it, honoring
// context cancellation.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)
	if c.nextSend.After(now) {
		wait = c.nextSend.Sub(now)
	}
	c.nextSend = now.Add(wait + c.Pause)
	c.mu.Unlock()

	return waitFor(ctx, wait)
}

// waitFor sleeps for d unless the context is canceled first.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func parseResults(body io.Reader, max int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	results := []Result{}
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// Sponsored rows carry the result--ad modifier.
		if s.HasClass("result--ad") {
			return true
		}

		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if !ok || title == "" {
			return true
		}

		href = unwrapRedirect(href)
		if href == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     href,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})

		return max <= 0 || len(results) < max
	})

	return results, nil
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg=… wrappers to the target URL.
func unwrapRedirect(href string) string {
	if strings.Contains(href, "duckduckgo.com/l/") || strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if uddg := u.Query().Get("uddg"); uddg != "" {
				return uddg
			}
		}
	}

	if strings.HasPrefix(href, "http") {
		return href
	}

	return ""
}
