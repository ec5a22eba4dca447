package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"SocialForge/internal/config"
	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
)

// ChromeRenderer screenshots the HTML card layouts with headless Chrome.
// It fails fast when no browser binary is available, which lets the
// pipeline fall through to the canvas renderer.
type ChromeRenderer struct {
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.Renderer = (*ChromeRenderer)(nil)

// NewChromeRenderer builds the renderer from configuration.
func NewChromeRenderer(cfg config.RenderConfig, logger *slog.Logger) *ChromeRenderer {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromeRenderer{timeout: timeout, logger: logger}
}

// Name identifies the renderer in logs and fallback reporting.
func (r *ChromeRenderer) Name() string {
	return "chrome"
}

// Render writes the cover (3:4, viewport shot) and one square card per
// deck entry (full-page shot, so long content extends the image).
func (r *ChromeRenderer) Render(ctx context.Context, content domain.PostContent, dir, dateLabel string) ([]string, error) {
	if dateLabel == "" {
		dateLabel = time.Now().Format("2006-01-02")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	bg1, bg2, accent := coverStyle()
	coverHTML, err := buildCoverHTML(content, dateLabel, bg1, bg2, accent)
	if err != nil {
		return nil, err
	}
	coverPath := filepath.Join(dir, coverFileName)
	if err := r.shoot(browserCtx, coverHTML, coverWidth, coverHeight, false, coverPath); err != nil {
		return nil, fmt.Errorf("render cover: %w", err)
	}
	images := []string{coverPath}

	for i, card := range content.Cards {
		html, err := buildCardHTML(card, i, len(content.Cards))
		if err != nil {
			return nil, err
		}
		cardPath := filepath.Join(dir, fmt.Sprintf(cardFilePattern, i+1))
		if err := r.shoot(browserCtx, html, cardSide, cardSide, true, cardPath); err != nil {
			return nil, fmt.Errorf("render card %d: %w", i+1, err)
		}
		images = append(images, cardPath)
	}

	return images, nil
}

func (r *ChromeRenderer) shoot(ctx context.Context, html string, width, height int64, fullPage bool, outPath string) error {
	tmp, err := os.CreateTemp("", "socialforge-card-*.html")
	if err != nil {
		return fmt.Errorf("create temp html: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp html: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp html: %w", err)
	}

	var shot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(width, height),
		chromedp.Navigate("file://" + tmp.Name()),
	}
	if fullPage {
		tasks = append(tasks, chromedp.FullScreenshot(&shot, 100))
	} else {
		tasks = append(tasks, chromedp.CaptureScreenshot(&shot))
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("chrome screenshot: %w", err)
	}
	if err := os.WriteFile(outPath, shot, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
