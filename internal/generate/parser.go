package generate

import (
	"strings"

	"SocialForge/internal/domain"
)

// ParseContent recovers the labelled note structure from a model reply.
// Labels accept half- and full-width colons. A card title line only
// buffers its value; the card materializes when the matching content
// line arrives, so a title directly followed by another title is
// overwritten and a content line with no preceding title yields an
// untitled card. Missing labels leave fields empty rather than failing.
func ParseContent(text string) domain.PostContent {
	var out domain.PostContent
	cardTitle := ""

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, "标题:") || strings.HasPrefix(line, "标题："):
			out.Title = labelValue(line)
		case strings.HasPrefix(line, "副标题:") || strings.HasPrefix(line, "副标题："):
			out.Subtitle = labelValue(line)
		case strings.HasPrefix(line, "标签:") || strings.HasPrefix(line, "标签："):
			out.Tags = labelValue(line)
		case strings.HasPrefix(line, "卡片") && strings.Contains(line, "标题"):
			cardTitle = labelValue(line)
		case strings.HasPrefix(line, "卡片") && strings.Contains(line, "内容"):
			out.Cards = append(out.Cards, domain.Card{Title: cardTitle, Content: labelValue(line)})
			cardTitle = ""
		}
	}

	if strings.Contains(text, "正文:") || strings.Contains(text, "正文：") {
		start := strings.Index(text, "正文:")
		if j := strings.Index(text, "正文："); j > start {
			start = j
		}
		body := text[start:]
		if _, rest, ok := strings.Cut(body, "\n"); ok {
			body = rest
		}
		for _, stop := range []string{"标签:", "标签：", "卡片1标题:", "卡片1标题："} {
			if i := strings.Index(body, stop); i >= 0 {
				body = body[:i]
			}
		}
		out.Body = strings.TrimSpace(body)
	}

	return out
}

// labelValue drops everything up to and including the first half-width
// colon, then the first full-width colon of what remains.
func labelValue(line string) string {
	v := line
	if i := strings.Index(v, ":"); i >= 0 {
		v = v[i+1:]
	}
	if i := strings.Index(v, "："); i >= 0 {
		v = v[i+1:]
	}
	return strings.TrimSpace(v)
}
