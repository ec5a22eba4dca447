package feed

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"SocialForge/internal/config"
	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
)

// Fetcher pulls recent entries from every subscribed feed. Per-feed
// failures are logged and skipped so one dead feed cannot sink the run.
type Fetcher struct {
	subs         []Subscription
	perFeedLimit int
	fetchContent bool
	parser       *gofeed.Parser
	http         *http.Client
	logger       *slog.Logger
}

var _ ports.FeedSource = (*Fetcher)(nil)

// NewFetcher builds a fetcher over the given subscriptions.
func NewFetcher(subs []Subscription, cfg config.FeedsConfig, logger *slog.Logger) *Fetcher {
	limit := cfg.PerFeedLimit
	if limit <= 0 {
		limit = 10
	}
	return &Fetcher{
		subs:         subs,
		perFeedLimit: limit,
		fetchContent: cfg.FetchContent,
		parser:       gofeed.NewParser(),
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// FetchRecent returns per-feed groups of articles published inside the
// window. Feeds with no recent articles are omitted.
func (f *Fetcher) FetchRecent(ctx context.Context, window time.Duration) ([]domain.FeedUpdate, error) {
	cutoff := time.Now().Add(-window)

	var updates []domain.FeedUpdate
	for _, sub := range f.subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parsed, err := f.parser.ParseURLWithContext(sub.URL, ctx)
		if err != nil {
			f.logger.Warn("feed fetch failed", "feed", sub.Title, "error", err)
			continue
		}

		items := parsed.Items
		if len(items) > f.perFeedLimit {
			items = items[:f.perFeedLimit]
		}

		var recent []domain.FeedArticle
		for _, item := range items {
			published := itemTime(item)
			if published.IsZero() || !published.After(cutoff) {
				continue
			}
			recent = append(recent, domain.FeedArticle{
				Title:     item.Title,
				Link:      item.Link,
				Summary:   f.articleSummary(ctx, item),
				Published: published,
			})
		}

		if len(recent) > 0 {
			updates = append(updates, domain.FeedUpdate{
				FeedTitle: sub.Title,
				FeedURL:   sub.URL,
				Articles:  recent,
			})
			f.logger.Debug("feed has updates", "feed", sub.Title, "articles", len(recent))
		}
	}

	return updates, nil
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// articleSummary prefers the feed's own description, falling back to
// full-content extraction only when enabled and the feed offers nothing.
func (f *Fetcher) articleSummary(ctx context.Context, item *gofeed.Item) string {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	if summary != "" {
		return stripHTML(summary)
	}
	if f.fetchContent && item.Link != "" {
		return f.extractContent(ctx, item.Link)
	}
	return ""
}

// stripHTML flattens feed markup to plain text for prompt budgets.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}

func (f *Fetcher) extractContent(ctx context.Context, link string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}
	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Debug("content fetch failed", "url", link, "error", err)
		return ""
	}
	defer resp.Body.Close()

	pageURL, err := url.Parse(link)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		f.logger.Debug("readability extraction failed", "url", link, "error", err)
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
