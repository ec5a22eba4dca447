// Package generate drives one ranked topic through note generation,
// parsing, rendering and artifact bookkeeping.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
	"SocialForge/internal/prompt"
	"SocialForge/pkg/textutil"
)

// ErrInvalidIndex marks a topic number outside the ranked range.
var ErrInvalidIndex = errors.New("topic index out of range")

// NoteFileName is the markdown note written into every topic directory.
const NoteFileName = "xiaohongshu.md"

// maxDigestFallbackRunes caps the digest excerpt used when a topic
// carries no per-article summary.
const maxDigestFallbackRunes = 3000

// Pipeline turns one ranked topic into a persisted note plus card images.
type Pipeline struct {
	generator ports.TextGenerator
	renderers []ports.Renderer
	outputDir string
	logger    *slog.Logger
}

// NewPipeline wires the pipeline. Renderers are tried in order; later
// entries are fallbacks for earlier ones.
func NewPipeline(generator ports.TextGenerator, renderers []ports.Renderer, outputDir string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		generator: generator,
		renderers: renderers,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Result reports what a Generate call produced.
type Result struct {
	Content  domain.PostContent
	Artifact domain.Artifact
	Renderer string
}

// Generate produces content for topic n of the day record and replaces
// any previous artifact under the same index. The output directory is a
// pure function of date key and index, so re-runs overwrite in place.
// The caller owns persisting the mutated record.
func (p *Pipeline) Generate(ctx context.Context, rec *domain.DayRecord, dateKey string, n int) (Result, error) {
	if !rec.HasTopic(n) {
		return Result{}, fmt.Errorf("%w: %d, valid range 1-%d", ErrInvalidIndex, n, len(rec.Topics))
	}
	topic := rec.Topics[n-1]

	summary := topic.Summary
	if summary == "" {
		raw, err := os.ReadFile(rec.DigestFile)
		if err != nil {
			return Result{}, fmt.Errorf("read digest %s: %w", rec.DigestFile, err)
		}
		summary = textutil.TruncateRunes(string(raw), maxDigestFallbackRunes)
	}

	p.logger.Info("generating note", "date", dateKey, "topic", n, "title", topic.Topic)
	raw, err := p.generator.Complete(ctx, prompt.Generate(topic.Topic, topic.Angle, summary))
	if err != nil {
		return Result{}, fmt.Errorf("generate note for topic %d: %w", n, err)
	}
	content := ParseContent(raw)

	outDir := filepath.Join(p.outputDir, dateKey, fmt.Sprintf("topic-%d", n))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create %s: %w", outDir, err)
	}
	if err := writeNote(outDir, content); err != nil {
		return Result{}, err
	}

	images, renderer := p.render(ctx, content, outDir, dateKey)

	artifact := domain.Artifact{
		Title:  content.Title,
		Tags:   content.Tags,
		Dir:    outDir,
		Images: images,
	}
	rec.Generated[domain.IndexKey(n)] = artifact

	return Result{Content: content, Artifact: artifact, Renderer: renderer}, nil
}

func writeNote(dir string, content domain.PostContent) error {
	note := fmt.Sprintf("# %s\n\n%s\n\n%s\n", content.Title, content.Body, content.Tags)
	path := filepath.Join(dir, NoteFileName)
	if err := os.WriteFile(path, []byte(note), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", path, err)
	}
	return nil
}

// render tries each renderer in order and degrades to an empty image
// list when every backend fails: the text is the deliverable, images
// are best effort.
func (p *Pipeline) render(ctx context.Context, content domain.PostContent, dir, dateKey string) ([]string, string) {
	for _, r := range p.renderers {
		images, err := r.Render(ctx, content, dir, dateKey)
		if err != nil {
			p.logger.Warn("renderer failed", "renderer", r.Name(), "error", err)
			continue
		}
		if images == nil {
			images = []string{}
		}
		p.logger.Info("rendered cards", "renderer", r.Name(), "images", len(images))
		return images, r.Name()
	}
	p.logger.Warn("all renderers failed, continuing without images")
	return []string{}, ""
}
