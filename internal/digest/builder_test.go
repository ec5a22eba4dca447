package digest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"SocialForge/internal/domain"
)

type fakeReviewer struct {
	reviews map[string]domain.ArticleReview
	errFor  map[string]error
	calls   int
}

func (f *fakeReviewer) Review(_ context.Context, article domain.FeedArticle) (domain.ArticleReview, error) {
	f.calls++
	if err := f.errFor[article.Title]; err != nil {
		return domain.ArticleReview{}, err
	}
	if r, ok := f.reviews[article.Title]; ok {
		return r, nil
	}
	return domain.ArticleReview{Translation: article.Title, Summary: "摘要", Score: 5}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUpdates() []domain.FeedUpdate {
	return []domain.FeedUpdate{
		{
			FeedTitle: "Alpha Blog",
			FeedURL:   "https://alpha.example.com/rss",
			Articles: []domain.FeedArticle{
				{Title: "Low article", Link: "https://alpha.example.com/low"},
				{Title: "High article", Link: "https://alpha.example.com/high?a=1&b=2"},
			},
		},
		{
			FeedTitle: "Beta Blog",
			FeedURL:   "https://beta.example.com/rss",
			Articles: []domain.FeedArticle{
				{Title: "Mid article", Link: "https://beta.example.com/mid"},
			},
		},
	}
}

func TestBuildWritesDigestAndCollection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reviewer := &fakeReviewer{reviews: map[string]domain.ArticleReview{
		"Low article":  {Translation: "低分文章", Summary: "低分摘要", Score: 3},
		"High article": {Translation: "高分文章", Summary: "高分摘要", Score: 9, Angle: "切入"},
		"Mid article":  {Translation: "中分文章", Summary: "中分摘要", Score: 6},
	}}
	b := NewBuilder(reviewer, dir, testLogger())

	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	res, err := b.Build(context.Background(), testUpdates(), now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if res.DigestFile != filepath.Join(dir, "digest-2025-03-14.md") {
		t.Fatalf("digest file = %q", res.DigestFile)
	}
	if res.ArticlesFile != filepath.Join(dir, "articles-2025-03-14.json") {
		t.Fatalf("articles file = %q", res.ArticlesFile)
	}
	if res.Articles != 3 || res.TopScore != 9 {
		t.Fatalf("result = %+v", res)
	}

	raw, err := os.ReadFile(res.DigestFile)
	if err != nil {
		t.Fatalf("read digest: %v", err)
	}
	md := string(raw)
	for _, want := range []string{
		"# RSS 每日摘要 - 2025-03-14",
		"共 2 个博客有更新，3 篇新文章",
		"## Alpha Blog",
		"## Beta Blog",
		"### 高分文章",
		"- **来源**: Alpha Blog",
		"- **原标题**: High article",
		"- **链接**: https://alpha.example.com/high?a=1&b=2",
		"- **摘要**: 高分摘要",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("digest missing %q:\n%s", want, md)
		}
	}
	if got := strings.Count(md, "---"); got != 4 {
		t.Fatalf("separator count = %d, want one per article plus header", got)
	}

	raw, err = os.ReadFile(res.ArticlesFile)
	if err != nil {
		t.Fatalf("read collection: %v", err)
	}
	if !strings.Contains(string(raw), "https://alpha.example.com/high?a=1&b=2") {
		t.Fatalf("collection should keep URLs unescaped:\n%s", raw)
	}

	var scored []domain.ScoredArticle
	if err := json.Unmarshal(raw, &scored); err != nil {
		t.Fatalf("decode collection: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("scored = %d entries", len(scored))
	}
	wantOrder := []int{9, 6, 3}
	for i, want := range wantOrder {
		if scored[i].Score != want {
			t.Fatalf("scored[%d].Score = %d, want %d", i, scored[i].Score, want)
		}
	}
	top := scored[0]
	if top.TitleEN != "High article" || top.TitleCN != "高分文章" || top.Source != "Alpha Blog" || top.Angle != "切入" {
		t.Fatalf("top entry = %+v", top)
	}
}

func TestBuildStableOrderForEqualScores(t *testing.T) {
	t.Parallel()

	updates := []domain.FeedUpdate{{
		FeedTitle: "Blog",
		Articles: []domain.FeedArticle{
			{Title: "First"},
			{Title: "Second"},
		},
	}}
	b := NewBuilder(&fakeReviewer{}, t.TempDir(), testLogger())

	res, err := b.Build(context.Background(), updates, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	raw, err := os.ReadFile(res.ArticlesFile)
	if err != nil {
		t.Fatalf("read collection: %v", err)
	}
	var scored []domain.ScoredArticle
	if err := json.Unmarshal(raw, &scored); err != nil {
		t.Fatalf("decode collection: %v", err)
	}
	if scored[0].TitleEN != "First" || scored[1].TitleEN != "Second" {
		t.Fatalf("equal scores should keep input order, got %+v", scored)
	}
}

func TestBuildDegradesFailedReview(t *testing.T) {
	t.Parallel()

	updates := []domain.FeedUpdate{{
		FeedTitle: "Blog",
		Articles: []domain.FeedArticle{
			{Title: "Good one", Link: "https://example.com/good"},
			{Title: "Bad one", Link: "https://example.com/bad"},
		},
	}}
	reviewer := &fakeReviewer{
		reviews: map[string]domain.ArticleReview{
			"Good one": {Translation: "好文章", Summary: "不错", Score: 7},
		},
		errFor: map[string]error{"Bad one": errors.New("provider down")},
	}
	b := NewBuilder(reviewer, t.TempDir(), testLogger())

	res, err := b.Build(context.Background(), updates, time.Now())
	if err != nil {
		t.Fatalf("Build should tolerate a failed review: %v", err)
	}
	if res.Articles != 2 {
		t.Fatalf("articles = %d, want both kept", res.Articles)
	}

	raw, err := os.ReadFile(res.ArticlesFile)
	if err != nil {
		t.Fatalf("read collection: %v", err)
	}
	var scored []domain.ScoredArticle
	if err := json.Unmarshal(raw, &scored); err != nil {
		t.Fatalf("decode collection: %v", err)
	}

	last := scored[len(scored)-1]
	if last.TitleEN != "Bad one" || last.TitleCN != "Bad one" || last.SummaryCN != "处理失败" || last.Score != 0 {
		t.Fatalf("failed review placeholder = %+v", last)
	}

	md, err := os.ReadFile(res.DigestFile)
	if err != nil {
		t.Fatalf("read digest: %v", err)
	}
	if !strings.Contains(string(md), "- **摘要**: 处理失败") {
		t.Fatalf("digest should carry the failure marker:\n%s", md)
	}
}

func TestBuildStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := NewBuilder(&fakeReviewer{}, dir, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, testUpdates(), time.Now())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("canceled build should write nothing, dir has %d entries", len(entries))
	}
}
