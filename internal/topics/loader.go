// Package topics locates the day's digest and loads its ranked topic list.
package topics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
	"SocialForge/internal/prompt"
	"SocialForge/pkg/textutil"
)

var (
	// ErrNoDigest means no digest file could be located for the day.
	ErrNoDigest = errors.New("no digest file found")

	// ErrRankParse means the model's ranking reply was not valid JSON.
	ErrRankParse = errors.New("ranking reply is not valid JSON")
)

// DateKey derives the YYYY-MM-DD key from a digest file name.
func DateKey(digestFile string) string {
	base := filepath.Base(digestFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(base, "digest-")
}

// Loader resolves digests and produces the day's topic list, preferring
// the pre-scored collection written by fetch and falling back to a
// model ranking call over the raw digest.
type Loader struct {
	dir       string
	generator ports.TextGenerator
	logger    *slog.Logger
}

// NewLoader creates a loader rooted at dir, where digest and scored
// collection files live.
func NewLoader(dir string, generator ports.TextGenerator, logger *slog.Logger) *Loader {
	if dir == "" {
		dir = "."
	}
	return &Loader{dir: dir, generator: generator, logger: logger}
}

// FindDigest resolves which digest file to rank: an explicit existing
// path wins, then today's file, then the lexicographically last one.
func (l *Loader) FindDigest(explicit string, now time.Time) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		l.logger.Warn("requested digest not found, searching instead", "path", explicit)
	}

	today := filepath.Join(l.dir, "digest-"+now.Format("2006-01-02")+".md")
	if _, err := os.Stat(today); err == nil {
		return today, nil
	}

	matches, err := filepath.Glob(filepath.Join(l.dir, "digest-*.md"))
	if err != nil {
		return "", fmt.Errorf("scan digests: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNoDigest
	}
	return matches[len(matches)-1], nil
}

// Load returns the topic list for a digest. The second return names the
// scored collection file when that path was taken, empty when the model
// ranked the raw digest.
func (l *Loader) Load(ctx context.Context, digestFile string) ([]domain.Topic, string, error) {
	key := DateKey(digestFile)
	scoredPath := filepath.Join(l.dir, "articles-"+key+".json")

	if _, err := os.Stat(scoredPath); err == nil {
		topics, err := l.loadScored(scoredPath)
		if err != nil {
			return nil, "", err
		}
		l.logger.Info("loaded pre-scored articles", "file", scoredPath, "topics", len(topics))
		return topics, scoredPath, nil
	}

	l.logger.Info("no scored collection, ranking digest with model", "digest", digestFile)
	topics, err := l.rankWithModel(ctx, digestFile)
	if err != nil {
		return nil, "", err
	}
	return topics, "", nil
}

// loadScored maps the externally ranked collection into topics. Entries
// scored zero or below are dropped; the incoming order is kept as is,
// so upstream tie-breaks survive.
func (l *Loader) loadScored(path string) ([]domain.Topic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scored collection %s: %w", path, err)
	}
	var articles []domain.ScoredArticle
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("decode scored collection %s: %w", path, err)
	}

	topics := make([]domain.Topic, 0, len(articles))
	for _, a := range articles {
		if a.Score <= 0 {
			continue
		}
		topics = append(topics, a.Topic())
	}
	return topics, nil
}

func (l *Loader) rankWithModel(ctx context.Context, digestFile string) ([]domain.Topic, error) {
	digest, err := os.ReadFile(digestFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNoDigest, digestFile, err)
	}

	raw, err := l.generator.Complete(ctx, prompt.Rank(string(digest)))
	if err != nil {
		return nil, fmt.Errorf("rank digest: %w", err)
	}

	var topics []domain.Topic
	cleaned := textutil.StripCodeFence(raw)
	if err := json.Unmarshal([]byte(cleaned), &topics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRankParse, err)
	}
	return topics, nil
}
