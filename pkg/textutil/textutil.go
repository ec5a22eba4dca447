// Package textutil holds small text helpers shared across the pipeline.
// Prompts carry CJK text, so every length operation counts runes, not bytes.
package textutil

import "strings"

// TruncateRunes cuts s after at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// StripCodeFence unwraps the first fenced block of a model reply. Models
// tend to wrap JSON responses in ``` fences despite instructions not to;
// an optional language tag right after the fence is dropped too.
func StripCodeFence(s string) string {
	if !strings.Contains(s, "```") {
		return strings.TrimSpace(s)
	}
	parts := strings.SplitN(s, "```", 3)
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// WrapRunes breaks s into lines of at most width runes. Explicit newlines
// are honored first. CJK text has no word boundaries to respect, so the
// break is a plain rune count.
func WrapRunes(s string, width int) []string {
	if width <= 0 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		r := []rune(para)
		if len(r) == 0 {
			lines = append(lines, "")
			continue
		}
		for len(r) > width {
			lines = append(lines, string(r[:width]))
			r = r[width:]
		}
		lines = append(lines, string(r))
	}
	return lines
}
