package ports

import (
	"context"
	"time"

	"SocialForge/internal/domain"
)

// TextGenerator produces a free-text completion for a prompt.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelLister enumerates the model identifiers a provider exposes.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Renderer turns parsed post content into card images inside dir and
// returns the paths it wrote.
type Renderer interface {
	Name() string
	Render(ctx context.Context, content domain.PostContent, dir string, dateLabel string) ([]string, error)
}

// FeedSource pulls recent articles from subscribed feeds, grouped per feed.
type FeedSource interface {
	FetchRecent(ctx context.Context, window time.Duration) ([]domain.FeedUpdate, error)
}

// Reviewer scores and translates a single feed article.
type Reviewer interface {
	Review(ctx context.Context, article domain.FeedArticle) (domain.ArticleReview, error)
}
