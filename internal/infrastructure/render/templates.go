// Package render produces the cover and card images for a post. Two
// backends share one look: a headless-Chrome HTML renderer and a plain
// 2D canvas fallback for hosts without a browser.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"image/color"
	"math/rand/v2"

	"SocialForge/internal/domain"
)

const (
	coverFileName   = "xhs-cover.png"
	cardFilePattern = "xhs-card%d.png"

	coverWidth  = 1080
	coverHeight = 1440
	cardSide    = 1080
)

// accentColors pair a muted accent with its matching card background.
var accentColors = []struct {
	Accent string
	BG     string
}{
	{"#7B8FA1", "#f2f4f6"},
	{"#9CAF88", "#f4f6f2"},
	{"#C4A882", "#f7f5f2"},
	{"#A89BB5", "#f5f3f7"},
	{"#B5838D", "#f7f3f4"},
	{"#8BA7A7", "#f2f5f5"},
}

// coverThemes are soft gradient pairs for the cover background.
var coverThemes = [][2]string{
	{"#f5f3f0", "#eeebe6"},
	{"#f0f2f5", "#e8ecf2"},
	{"#f3f5f0", "#eaf0e6"},
}

var coverTmpl = template.Must(template.New("cover").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { width: 1080px; height: 1440px; font-family: "PingFang SC", "Hiragino Sans GB", "Microsoft YaHei", sans-serif;
  background: linear-gradient(135deg, {{.BG1}} 0%, {{.BG2}} 100%);
  display: flex; flex-direction: column; align-items: center; justify-content: center; padding: 80px; }
.badge { background: {{.Accent}}; color: white; padding: 8px 24px; border-radius: 20px; font-size: 24px; letter-spacing: 2px; margin-bottom: 50px; }
h1 { font-size: 64px; font-weight: 800; color: #1a1a2e; text-align: center; line-height: 1.4; margin-bottom: 20px; }
.subtitle { font-size: 32px; color: #555; text-align: center; line-height: 1.6; margin-bottom: 30px; }
.date { font-size: 24px; color: #999; }
.deco { width: 60px; height: 4px; background: {{.Accent}}; border-radius: 2px; margin: 30px 0; }
</style></head><body>
  <div class="badge">每日科技速递</div>
  <div class="deco"></div>
  <h1>{{.Title}}</h1>
  <div class="subtitle">{{.Subtitle}}</div>
  <div class="deco"></div>
  <div class="date">{{.Date}}</div>
</body></html>`))

var cardTmpl = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { width: 1080px; min-height: 1080px; font-family: "PingFang SC", "Hiragino Sans GB", "Microsoft YaHei", sans-serif;
  background: {{.BG}}; display: flex; flex-direction: column; padding: 0; }
.top-bar { height: 8px; background: {{.Accent}}; }
.content { padding: 70px 80px; display: flex; flex-direction: column; }
.num { font-size: 100px; font-weight: 900; color: {{.Accent}}18; line-height: 1; margin-bottom: 0; }
.card-title { font-size: 46px; font-weight: 700; color: {{.Accent}}; margin: 10px 0 20px 0; }
.divider { width: 80px; height: 4px; background: {{.Accent}}; border-radius: 2px; margin-bottom: 30px; }
.card-body { font-size: 38px; color: #2a2a3a; line-height: 2.0; }
.footer { text-align: center; padding: 40px; color: #bbb; font-size: 22px; border-top: 3px solid {{.Accent}}30; margin: 0 80px; }
</style></head><body>
  <div class="top-bar"></div>
  <div class="content">
    <div class="num">{{.Num}}</div>
    <div class="card-title">{{.CardTitle}}</div>
    <div class="divider"></div>
    <div class="card-body">{{.CardBody}}</div>
  </div>
  <div class="footer">{{.Page}}</div>
</body></html>`))

type coverData struct {
	Title    string
	Subtitle string
	Date     string
	BG1      template.CSS
	BG2      template.CSS
	Accent   template.CSS
}

type cardData struct {
	Num       string
	CardTitle string
	CardBody  string
	Page      string
	Accent    template.CSS
	BG        template.CSS
}

// coverStyle picks a random theme pair and accent for the cover.
func coverStyle() (bg1, bg2, accent string) {
	theme := coverThemes[rand.IntN(len(coverThemes))]
	return theme[0], theme[1], accentColors[rand.IntN(len(accentColors))].Accent
}

func buildCoverHTML(content domain.PostContent, dateLabel, bg1, bg2, accent string) (string, error) {
	title := content.Title
	if title == "" {
		title = "科技速递"
	}
	var buf bytes.Buffer
	err := coverTmpl.Execute(&buf, coverData{
		Title:    title,
		Subtitle: content.Subtitle,
		Date:     dateLabel,
		BG1:      template.CSS(bg1),
		BG2:      template.CSS(bg2),
		Accent:   template.CSS(accent),
	})
	if err != nil {
		return "", fmt.Errorf("execute cover template: %w", err)
	}
	return buf.String(), nil
}

func buildCardHTML(card domain.Card, index, total int) (string, error) {
	style := accentColors[index%len(accentColors)]
	var buf bytes.Buffer
	err := cardTmpl.Execute(&buf, cardData{
		Num:       fmt.Sprintf("0%d", index+1),
		CardTitle: card.Title,
		CardBody:  card.Content,
		Page:      fmt.Sprintf("%d / %d", index+1, total),
		Accent:    template.CSS(style.Accent),
		BG:        template.CSS(style.BG),
	})
	if err != nil {
		return "", fmt.Errorf("execute card template: %w", err)
	}
	return buf.String(), nil
}

// canvas palettes mirror the PIL art direction on the fallback path.
var canvasCardThemes = [][2]color.RGBA{
	{{R: 245, G: 245, B: 250, A: 255}, {R: 235, G: 240, B: 250, A: 255}},
	{{R: 245, G: 248, B: 240, A: 255}, {R: 235, G: 245, B: 230, A: 255}},
	{{R: 250, G: 245, B: 248, A: 255}, {R: 245, G: 235, B: 242, A: 255}},
	{{R: 245, G: 248, B: 255, A: 255}, {R: 230, G: 240, B: 255, A: 255}},
	{{R: 255, G: 248, B: 240, A: 255}, {R: 250, G: 240, B: 230, A: 255}},
	{{R: 248, G: 245, B: 255, A: 255}, {R: 240, G: 235, B: 250, A: 255}},
}

var canvasAccents = []color.RGBA{
	{R: 60, G: 100, B: 200, A: 255},
	{R: 40, G: 160, B: 100, A: 255},
	{R: 200, G: 80, B: 120, A: 255},
	{R: 50, G: 120, B: 210, A: 255},
	{R: 220, G: 130, B: 50, A: 255},
	{R: 130, G: 80, B: 200, A: 255},
}
