// Package digest turns recent feed updates into the day's digest files:
// a readable markdown summary plus a scored article collection that
// downstream ranking prefers over a second model pass.
package digest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
	"SocialForge/internal/prompt"
)

const (
	defaultScore   = 5
	failedSummary  = "处理失败"
	missingSummary = "无摘要"
)

// ModelReviewer asks the text provider to translate, summarize and
// score one article per call.
type ModelReviewer struct {
	generator ports.TextGenerator
}

var _ ports.Reviewer = (*ModelReviewer)(nil)

// NewModelReviewer creates a reviewer backed by generator.
func NewModelReviewer(generator ports.TextGenerator) *ModelReviewer {
	return &ModelReviewer{generator: generator}
}

// Review implements ports.Reviewer.
func (r *ModelReviewer) Review(ctx context.Context, article domain.FeedArticle) (domain.ArticleReview, error) {
	reply, err := r.generator.Complete(ctx, prompt.Review(article.Title, article.Summary))
	if err != nil {
		return domain.ArticleReview{}, fmt.Errorf("review %q: %w", article.Title, err)
	}
	return parseReview(reply, article.Title), nil
}

// parseReview reads the labelled reply lines. Labels must sit at the
// start of a line and carry a colon in either width. Missing fields keep
// their defaults: the original title, a missing-summary marker and a
// middling score.
func parseReview(reply, fallbackTitle string) domain.ArticleReview {
	review := domain.ArticleReview{Score: defaultScore}

	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		switch {
		case hasLabel(line, "翻译"):
			review.Translation = labelValue(line)
		case hasLabel(line, "摘要"):
			review.Summary = labelValue(line)
		case hasLabel(line, "评分"):
			n, err := strconv.Atoi(labelValue(line))
			if err != nil {
				n = defaultScore
			}
			review.Score = n
		case hasLabel(line, "角度"):
			angle := labelValue(line)
			if angle == "无" {
				angle = ""
			}
			review.Angle = angle
		}
	}

	if review.Translation == "" {
		review.Translation = fallbackTitle
	}
	if review.Summary == "" {
		review.Summary = missingSummary
	}
	return review
}

func hasLabel(line, label string) bool {
	return strings.HasPrefix(line, label+":") || strings.HasPrefix(line, label+"：")
}

// labelValue cuts the line at the first colon of each width in turn, so
// a full-width colon inside the value still truncates it.
func labelValue(line string) string {
	if _, after, ok := strings.Cut(line, ":"); ok {
		line = after
	}
	if _, after, ok := strings.Cut(line, "："); ok {
		line = after
	}
	return strings.TrimSpace(line)
}
