package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="serp__results">
  <div class="result result--ad">
    <a class="result__a" href="https://ads.example.com/buy">Sponsored thing</a>
    <a class="result__snippet">Buy now</a>
  </div>
  <div class="result">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.geeksforgeeks.org%2Fdsa%2F&amp;rut=abc">DSA Tutorial</a>
    <a class="result__snippet">Learn data structures and algorithms step by step.</a>
  </div>
  <div class="result">
    <a class="result__a" href="https://leetcode.com/problemset/">LeetCode Problems</a>
    <a class="result__snippet">Practice coding problems.</a>
  </div>
  <div class="result">
    <a class="result__a" href="/relative/only">Broken relative link</a>
  </div>
  <div class="result">
    <a class="result__a" href="https://github.com/example/awesome-dsa">Awesome DSA</a>
    <a class="result__snippet">Curated repository.</a>
  </div>
</div>
</body></html>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(nil)
	client.Endpoint = server.URL
	client.Pause = 0

	return client
}

func TestSearch(t *testing.T) {
	var gotForm url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte(resultsPage))
	})

	results, err := client.Search(context.Background(), "data structures tutorial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotForm.Get("q") != "data structures tutorial" {
		t.Errorf("query sent = %q", gotForm.Get("q"))
	}
	if gotForm.Get("kl") != "wt-wt" {
		t.Errorf("region sent = %q", gotForm.Get("kl"))
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}

	// The redirect wrapper is unwrapped, the ad and the relative link are skipped.
	if results[0].URL != "https://www.geeksforgeeks.org/dsa/" {
		t.Errorf("first url = %q", results[0].URL)
	}
	if results[0].Title != "DSA Tutorial" {
		t.Errorf("first title = %q", results[0].Title)
	}
	if !strings.Contains(results[0].Snippet, "data structures") {
		t.Errorf("first snippet = %q", results[0].Snippet)
	}
	if results[1].URL != "https://leetcode.com/problemset/" {
		t.Errorf("second url = %q", results[1].URL)
	}
	if results[2].URL != "https://github.com/example/awesome-dsa" {
		t.Errorf("third url = %q", results[2].URL)
	}
}

func TestSearchCapsResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(resultsPage))
	})
	client.MaxResults = 1

	results, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := New(nil)

	if _, err := client.Search(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestSearchNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><div class='no-results'>nothing</div></body></html>"))
	})

	results, err := client.Search(context.Background(), "gibberish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}

func TestSearchPacesConsecutiveRequests(t *testing.T) {
	var mu sync.Mutex
	var waits []time.Duration
	originalSleep := sleep
	sleep = func(d time.Duration) {
		mu.Lock()
		waits = append(waits, d)
		mu.Unlock()
	}
	t.Cleanup(func() { sleep = originalSleep })

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(resultsPage))
	})
	client.Pause = time.Second

	for i := 0; i < 2; i++ {
		if _, err := client.Search(context.Background(), "paced query"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(waits) != 1 {
		t.Fatalf("expected one wait for the second request, got %v", waits)
	}
	if waits[0] <= 0 || waits[0] > time.Second {
		t.Fatalf("unexpected wait duration %v", waits[0])
	}
}

func TestWaitForCanceledContext(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) { time.Sleep(10 * time.Millisecond) }
	t.Cleanup(func() { sleep = originalSleep })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := waitFor(ctx, time.Second); err == nil {
		t.Fatal("expected context error")
	}
}

func TestUnwrapRedirect(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{
			name: "redirect wrapper",
			href: "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=xyz",
			want: "https://example.com/page",
		},
		{
			name: "direct url",
			href: "https://example.com/direct",
			want: "https://example.com/direct",
		},
		{
			name: "relative link",
			href: "/html/?q=next",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unwrapRedirect(tt.href); got != tt.want {
				t.Fatalf("unwrapRedirect(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}
