package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SocialForge/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rssDoc(items string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test Feed</title><link>https://example.com</link>` + items + `</channel></rss>`
}

func rssItem(title, link, description string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><description>%s</description><pubDate>%s</pubDate></item>`,
		title, link, description, published.Format(time.RFC1123Z))
}

func TestFetchRecentFiltersByWindow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := rssDoc(
		rssItem("Fresh", "https://example.com/fresh", "&lt;p&gt;Fresh &lt;b&gt;content&lt;/b&gt; here&lt;/p&gt;", now.Add(-2*time.Hour)) +
			rssItem("Stale", "https://example.com/stale", "old text", now.Add(-80*time.Hour)))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, doc)
	}))
	defer srv.Close()

	f := NewFetcher([]Subscription{{Title: "Test Feed", URL: srv.URL}}, config.FeedsConfig{PerFeedLimit: 10}, discardLogger())
	updates, err := f.FetchRecent(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}

	if len(updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(updates))
	}
	got := updates[0]
	if got.FeedTitle != "Test Feed" {
		t.Fatalf("feed title = %q", got.FeedTitle)
	}
	if len(got.Articles) != 1 || got.Articles[0].Title != "Fresh" {
		t.Fatalf("articles = %+v", got.Articles)
	}
	if got.Articles[0].Summary != "Fresh content here" {
		t.Fatalf("summary not stripped: %q", got.Articles[0].Summary)
	}
}

func TestFetchRecentHonorsPerFeedLimit(t *testing.T) {
	t.Parallel()

	now := time.Now()
	doc := rssDoc(
		rssItem("One", "https://example.com/1", "a", now.Add(-1*time.Hour)) +
			rssItem("Two", "https://example.com/2", "b", now.Add(-2*time.Hour)))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, doc)
	}))
	defer srv.Close()

	f := NewFetcher([]Subscription{{Title: "T", URL: srv.URL}}, config.FeedsConfig{PerFeedLimit: 1}, discardLogger())
	updates, err := f.FetchRecent(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(updates) != 1 || len(updates[0].Articles) != 1 {
		t.Fatalf("expected single article after limit, got %+v", updates)
	}
	if updates[0].Articles[0].Title != "One" {
		t.Fatalf("limit should keep leading entries, got %q", updates[0].Articles[0].Title)
	}
}

func TestFetchRecentSkipsBrokenFeeds(t *testing.T) {
	t.Parallel()

	now := time.Now()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, rssDoc(rssItem("Ok", "https://example.com/ok", "text", now.Add(-time.Hour))))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer bad.Close()

	f := NewFetcher([]Subscription{
		{Title: "Broken", URL: bad.URL},
		{Title: "Good", URL: good.URL},
	}, config.FeedsConfig{PerFeedLimit: 10}, discardLogger())

	updates, err := f.FetchRecent(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(updates) != 1 || updates[0].FeedTitle != "Good" {
		t.Fatalf("expected only the good feed, got %+v", updates)
	}
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	got := stripHTML("<div><h1>Title</h1> <p>Body&nbsp;text &amp; more.</p></div>")
	if got != "Title Body text & more." {
		t.Fatalf("stripHTML = %q", got)
	}
}
