package generate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
)

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Complete(_ context.Context, p string) (string, error) {
	f.lastPrompt = p
	return f.reply, f.err
}

type fakeRenderer struct {
	name   string
	images []string
	err    error
	calls  int
}

func (f *fakeRenderer) Name() string { return f.name }

func (f *fakeRenderer) Render(_ context.Context, _ domain.PostContent, dir, _ string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, len(f.images))
	for _, img := range f.images {
		out = append(out, filepath.Join(dir, img))
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dayRecord() *domain.DayRecord {
	return &domain.DayRecord{
		DigestFile: "digest-2026-08-25.md",
		Topics: []domain.Topic{
			{Score: 9, Title: "One", Topic: "话题一", Angle: "角度一", Summary: "摘要一"},
			{Score: 7, Title: "Two", Topic: "话题二", Summary: "摘要二"},
		},
		Generated: map[string]domain.Artifact{},
		Published: map[string]bool{},
	}
}

const generatedReply = `标题: 测试标题
副标题: 副标题文本
正文:
正文第一段。
标签: #测试 #内容
卡片1标题: 卡一
卡片1内容: 卡一内容。`

func TestGenerateInvalidIndex(t *testing.T) {
	t.Parallel()

	p := NewPipeline(&fakeGenerator{reply: generatedReply}, nil, t.TempDir(), discardLogger())
	rec := dayRecord()

	for _, n := range []int{0, -1, 3} {
		_, err := p.Generate(context.Background(), rec, "2026-08-25", n)
		if !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("index %d: expected ErrInvalidIndex, got %v", n, err)
		}
	}
	if len(rec.Generated) != 0 {
		t.Fatal("invalid index must not record artifacts")
	}
}

func TestGenerateWritesNoteAndRecordsArtifact(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	gen := &fakeGenerator{reply: generatedReply}
	renderer := &fakeRenderer{name: "chrome", images: []string{"xhs-cover.png", "xhs-card1.png"}}
	p := NewPipeline(gen, []ports.Renderer{renderer}, outputDir, discardLogger())
	rec := dayRecord()

	res, err := p.Generate(context.Background(), rec, "2026-08-25", 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantDir := filepath.Join(outputDir, "2026-08-25", "topic-2")
	if res.Artifact.Dir != wantDir {
		t.Fatalf("artifact dir = %q, want %q", res.Artifact.Dir, wantDir)
	}

	note, err := os.ReadFile(filepath.Join(wantDir, NoteFileName))
	if err != nil {
		t.Fatalf("note file: %v", err)
	}
	want := "# 测试标题\n\n正文第一段。\n\n#测试 #内容\n"
	if string(note) != want {
		t.Fatalf("note = %q, want %q", note, want)
	}

	art, ok := rec.Generated["2"]
	if !ok {
		t.Fatal("artifact not recorded under index key")
	}
	if art.Title != "测试标题" || art.Tags != "#测试 #内容" {
		t.Fatalf("artifact = %+v", art)
	}
	if len(art.Images) != 2 {
		t.Fatalf("images = %v", art.Images)
	}
	if res.Renderer != "chrome" {
		t.Fatalf("renderer = %q", res.Renderer)
	}
	if !strings.Contains(gen.lastPrompt, "话题二") || !strings.Contains(gen.lastPrompt, "摘要二") {
		t.Fatal("prompt missing topic fields")
	}
}

func TestGenerateOverwritesPreviousArtifact(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	p := NewPipeline(&fakeGenerator{reply: generatedReply}, nil, outputDir, discardLogger())
	rec := dayRecord()
	rec.Generated["1"] = domain.Artifact{Title: "旧标题", Dir: "old/dir"}

	res, err := p.Generate(context.Background(), rec, "2026-08-25", 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	art := rec.Generated["1"]
	if art.Title != "测试标题" {
		t.Fatalf("artifact not overwritten: %+v", art)
	}
	if art.Dir != filepath.Join(outputDir, "2026-08-25", "topic-1") {
		t.Fatalf("dir not deterministic: %q", art.Dir)
	}
	if res.Artifact.Dir != art.Dir {
		t.Fatal("result and record disagree on dir")
	}
}

func TestGenerateDigestFallbackForMissingSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	digest := filepath.Join(dir, "digest-2026-08-25.md")
	if err := os.WriteFile(digest, []byte("日报全文内容"), 0o644); err != nil {
		t.Fatal(err)
	}

	gen := &fakeGenerator{reply: generatedReply}
	p := NewPipeline(gen, nil, dir, discardLogger())
	rec := dayRecord()
	rec.DigestFile = digest
	rec.Topics[1].Summary = ""

	if _, err := p.Generate(context.Background(), rec, "2026-08-25", 2); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gen.lastPrompt, "日报全文内容") {
		t.Fatal("digest fallback not used in prompt")
	}
}

func TestGenerateMissingDigestForMissingSummary(t *testing.T) {
	t.Parallel()

	p := NewPipeline(&fakeGenerator{reply: generatedReply}, nil, t.TempDir(), discardLogger())
	rec := dayRecord()
	rec.DigestFile = filepath.Join(t.TempDir(), "absent.md")
	rec.Topics[0].Summary = ""

	_, err := p.Generate(context.Background(), rec, "2026-08-25", 1)
	if err == nil {
		t.Fatal("expected error for unreadable digest")
	}
	if len(rec.Generated) != 0 {
		t.Fatal("failed generation must not record artifacts")
	}
}

func TestGeneratePropagatesProviderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("rate limited")
	p := NewPipeline(&fakeGenerator{err: boom}, nil, t.TempDir(), discardLogger())
	rec := dayRecord()

	_, err := p.Generate(context.Background(), rec, "2026-08-25", 1)
	if !errors.Is(err, boom) {
		t.Fatalf("provider error not propagated: %v", err)
	}
	if len(rec.Generated) != 0 {
		t.Fatal("failed generation must not record artifacts")
	}
}

func TestGenerateFallsBackToSecondRenderer(t *testing.T) {
	t.Parallel()

	primary := &fakeRenderer{name: "chrome", err: errors.New("no browser")}
	fallback := &fakeRenderer{name: "canvas", images: []string{"xhs-cover.png"}}
	p := NewPipeline(&fakeGenerator{reply: generatedReply}, []ports.Renderer{primary, fallback}, t.TempDir(), discardLogger())
	rec := dayRecord()

	res, err := p.Generate(context.Background(), rec, "2026-08-25", 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("renderer calls = %d/%d, want 1/1", primary.calls, fallback.calls)
	}
	if res.Renderer != "canvas" {
		t.Fatalf("renderer = %q, want canvas", res.Renderer)
	}
	if len(res.Artifact.Images) != 1 {
		t.Fatalf("images = %v", res.Artifact.Images)
	}
}

func TestGenerateProceedsWhenAllRenderersFail(t *testing.T) {
	t.Parallel()

	r1 := &fakeRenderer{name: "chrome", err: errors.New("no browser")}
	r2 := &fakeRenderer{name: "canvas", err: errors.New("no font")}
	p := NewPipeline(&fakeGenerator{reply: generatedReply}, []ports.Renderer{r1, r2}, t.TempDir(), discardLogger())
	rec := dayRecord()

	res, err := p.Generate(context.Background(), rec, "2026-08-25", 1)
	if err != nil {
		t.Fatalf("Generate must degrade, got: %v", err)
	}
	if res.Artifact.Images == nil || len(res.Artifact.Images) != 0 {
		t.Fatalf("images = %#v, want empty non-nil list", res.Artifact.Images)
	}
	if _, ok := rec.Generated["1"]; !ok {
		t.Fatal("artifact must still be recorded without images")
	}
}
