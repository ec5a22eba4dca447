package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"

	"SocialForge/internal/config"
	"SocialForge/internal/domain"
	"SocialForge/internal/ports"
	"SocialForge/pkg/textutil"
)

// CanvasRenderer draws the cover and cards directly on a 2D canvas.
// It needs a CJK-capable font file on disk and nothing else, so it
// serves as the fallback when headless Chrome is unavailable.
type CanvasRenderer struct {
	fonts  []string
	logger *slog.Logger
}

var _ ports.Renderer = (*CanvasRenderer)(nil)

// NewCanvasRenderer builds the renderer from configuration.
func NewCanvasRenderer(cfg config.RenderConfig, logger *slog.Logger) *CanvasRenderer {
	return &CanvasRenderer{fonts: cfg.FontCandidates, logger: logger}
}

// Name identifies the renderer in logs and fallback reporting.
func (r *CanvasRenderer) Name() string {
	return "canvas"
}

// Render writes the cover and one card image per deck entry.
func (r *CanvasRenderer) Render(ctx context.Context, content domain.PostContent, dir, dateLabel string) ([]string, error) {
	font, err := r.findFont()
	if err != nil {
		return nil, err
	}
	if dateLabel == "" {
		dateLabel = time.Now().Format("2006-01-02")
	}

	title := content.Title
	if title == "" {
		title = "科技速递"
	}

	coverPath := filepath.Join(dir, coverFileName)
	if err := drawCover(font, title, dateLabel, coverPath); err != nil {
		return nil, fmt.Errorf("draw cover: %w", err)
	}
	images := []string{coverPath}

	for i, card := range content.Cards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cardPath := filepath.Join(dir, fmt.Sprintf(cardFilePattern, i+1))
		if err := drawCard(font, card, i, len(content.Cards), cardPath); err != nil {
			return nil, fmt.Errorf("draw card %d: %w", i+1, err)
		}
		images = append(images, cardPath)
	}

	return images, nil
}

func (r *CanvasRenderer) findFont() (string, error) {
	for _, f := range r.fonts {
		if _, err := os.Stat(f); err == nil {
			return f, nil
		}
	}
	return "", errors.New("no cjk-capable font found")
}

func drawCover(fontPath, title, dateLabel, outPath string) error {
	dc := gg.NewContext(coverWidth, coverHeight)
	grad := gg.NewLinearGradient(0, 0, 0, coverHeight)
	grad.AddColorStop(0, color.RGBA{R: 250, G: 250, B: 255, A: 255})
	grad.AddColorStop(1, color.RGBA{R: 240, G: 242, B: 250, A: 255})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, coverWidth, coverHeight)
	dc.Fill()

	accent := canvasAccents[0]
	areaTop := float64(coverHeight) / 5
	areaBot := float64(coverHeight) * 4 / 5

	dc.SetColor(accent)
	dc.DrawRectangle(80, areaTop, coverWidth-160, 4)
	dc.Fill()
	dc.DrawRectangle(80, areaBot, coverWidth-160, 4)
	dc.Fill()

	if err := dc.LoadFontFace(fontPath, 60); err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	lines := textutil.WrapRunes(title, 13)
	lineH := 84.0
	contentH := float64(len(lines))*lineH + 60 + 56 + 36
	y := areaTop + 4 + (areaBot-areaTop-4-contentH)/2
	dc.SetRGB255(30, 30, 50)
	for _, line := range lines {
		dc.DrawStringAnchored(line, coverWidth/2, y, 0.5, 1)
		y += lineH
	}
	y += 60

	if err := dc.LoadFontFace(fontPath, 30); err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	dc.SetColor(accent)
	dc.DrawStringAnchored("每日科技速递", coverWidth/2, y, 0.5, 1)
	y += 56
	dc.SetRGB255(160, 160, 180)
	dc.DrawStringAnchored(dateLabel, coverWidth/2, y, 0.5, 1)

	return dc.SavePNG(outPath)
}

func drawCard(fontPath string, card domain.Card, index, total int, outPath string) error {
	dc := gg.NewContext(coverWidth, coverHeight)
	theme := canvasCardThemes[index%len(canvasCardThemes)]
	grad := gg.NewLinearGradient(0, 0, 0, coverHeight)
	grad.AddColorStop(0, theme[0])
	grad.AddColorStop(1, theme[1])
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, coverWidth, coverHeight)
	dc.Fill()

	accent := canvasAccents[index%len(canvasAccents)]

	if err := dc.LoadFontFace(fontPath, 120); err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	dc.SetRGBA255(int(accent.R), int(accent.G), int(accent.B), 40)
	dc.DrawStringAnchored(fmt.Sprintf("0%d", index+1), 80, 100, 0, 1)

	dc.SetColor(accent)
	dc.DrawRectangle(80, 280, coverWidth-160, 4)
	dc.Fill()

	bodyY := 320.0
	if card.Title != "" {
		if err := dc.LoadFontFace(fontPath, 46); err != nil {
			return fmt.Errorf("load font %s: %w", fontPath, err)
		}
		dc.SetColor(accent)
		dc.DrawStringAnchored(card.Title, 80, 320, 0, 1)
		bodyY = 400
	}

	if err := dc.LoadFontFace(fontPath, 36); err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	runesPerLine := (coverWidth - 160) / 36
	lines := textutil.WrapRunes(card.Content, runesPerLine)
	lineH := 36 * 1.8
	bodyH := float64(len(lines)) * lineH
	y := bodyY
	if pad := ((coverHeight - 200) - bodyY - bodyH) / 2; pad > 0 {
		y += pad
	}
	dc.SetRGB255(40, 40, 55)
	for _, line := range lines {
		dc.DrawStringAnchored(line, 80, y, 0, 1)
		y += lineH
	}

	dc.SetColor(accent)
	dc.DrawRectangle(80, coverHeight-140, coverWidth-160, 4)
	dc.Fill()
	if err := dc.LoadFontFace(fontPath, 24); err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	dc.SetRGB255(160, 160, 180)
	dc.DrawStringAnchored(fmt.Sprintf("%d/%d", index+1, total), coverWidth/2, coverHeight-110, 0.5, 1)

	return dc.SavePNG(outPath)
}
