package digest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
)

// Builder reviews fetched articles and writes the day's digest markdown
// and scored collection into its directory.
type Builder struct {
	reviewer ports.Reviewer
	dir      string
	logger   *slog.Logger
}

// NewBuilder creates a builder writing into dir.
func NewBuilder(reviewer ports.Reviewer, dir string, logger *slog.Logger) *Builder {
	if dir == "" {
		dir = "."
	}
	return &Builder{reviewer: reviewer, dir: dir, logger: logger}
}

// Result names the files a build produced.
type Result struct {
	DigestFile   string
	ArticlesFile string
	Articles     int
	TopScore     int
}

// Build writes digest-<day>.md and articles-<day>.json for the given
// updates. A failed review degrades that one article to a zero-score
// placeholder instead of aborting the build; only context cancellation
// stops it early.
func (b *Builder) Build(ctx context.Context, updates []domain.FeedUpdate, now time.Time) (Result, error) {
	day := now.Format("2006-01-02")

	var md strings.Builder
	scored := make([]domain.ScoredArticle, 0)

	total := 0
	for _, u := range updates {
		total += len(u.Articles)
	}

	fmt.Fprintf(&md, "# RSS 每日摘要 - %s\n\n", day)
	fmt.Fprintf(&md, "共 %d 个博客有更新，%d 篇新文章\n\n", len(updates), total)
	md.WriteString("---\n\n")

	for _, update := range updates {
		fmt.Fprintf(&md, "## %s\n\n", update.FeedTitle)

		for _, article := range update.Articles {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			review := b.reviewArticle(ctx, article)

			fmt.Fprintf(&md, "### %s\n\n", review.Translation)
			fmt.Fprintf(&md, "- **来源**: %s\n", update.FeedTitle)
			fmt.Fprintf(&md, "- **原标题**: %s\n", article.Title)
			fmt.Fprintf(&md, "- **链接**: %s\n", article.Link)
			fmt.Fprintf(&md, "- **摘要**: %s\n\n", review.Summary)
			md.WriteString("---\n\n")

			scored = append(scored, domain.ScoredArticle{
				TitleEN:   article.Title,
				TitleCN:   review.Translation,
				SummaryCN: review.Summary,
				Source:    update.FeedTitle,
				URL:       article.Link,
				Score:     review.Score,
				Angle:     review.Angle,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create digest dir: %w", err)
	}

	res := Result{
		DigestFile:   filepath.Join(b.dir, "digest-"+day+".md"),
		ArticlesFile: filepath.Join(b.dir, "articles-"+day+".json"),
		Articles:     len(scored),
	}
	if len(scored) > 0 {
		res.TopScore = scored[0].Score
	}

	if err := os.WriteFile(res.DigestFile, []byte(md.String()), 0o644); err != nil {
		return Result{}, fmt.Errorf("write digest: %w", err)
	}
	if err := writeJSON(res.ArticlesFile, scored); err != nil {
		return Result{}, fmt.Errorf("write scored collection: %w", err)
	}

	b.logger.Info("digest built",
		"digest", res.DigestFile, "articles", res.Articles, "top_score", res.TopScore)
	return res, nil
}

func (b *Builder) reviewArticle(ctx context.Context, article domain.FeedArticle) domain.ArticleReview {
	review, err := b.reviewer.Review(ctx, article)
	if err != nil {
		b.logger.Warn("article review failed", "article", article.Title, "error", err)
		return domain.ArticleReview{Translation: article.Title, Summary: failedSummary}
	}
	return review
}

// writeJSON writes v indented and without HTML escaping, keeping URLs
// readable in the on-disk collection.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
