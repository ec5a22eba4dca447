package textutil

import (
	"strings"
	"testing"
)

func TestTruncateRunesCountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	s := "深度学习模型"
	got := TruncateRunes(s, 3)
	if got != "深度学" {
		t.Fatalf("TruncateRunes = %q, want %q", got, "深度学")
	}
	if got := TruncateRunes(s, 100); got != s {
		t.Fatalf("TruncateRunes beyond length = %q, want original", got)
	}
	if got := TruncateRunes(s, 0); got != "" {
		t.Fatalf("TruncateRunes(0) = %q, want empty", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", "  [1,2,3]\n", "[1,2,3]"},
		{"plain fence", "```\n[1,2,3]\n```", "[1,2,3]"},
		{"json tag", "```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"leading prose", "好的，以下是结果：\n```json\n[]\n```\n完毕", "[]"},
		{"unterminated fence", "```json\n[1]", "[1]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := StripCodeFence(tc.in); got != tc.want {
				t.Fatalf("StripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestWrapRunes(t *testing.T) {
	t.Parallel()

	lines := WrapRunes("一二三四五六七", 3)
	want := []string{"一二三", "四五六", "七"}
	if len(lines) != len(want) {
		t.Fatalf("WrapRunes produced %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapRunesKeepsExplicitNewlines(t *testing.T) {
	t.Parallel()

	lines := WrapRunes("短行\n这是一个很长的段落", 5)
	if lines[0] != "短行" {
		t.Fatalf("first line = %q, want %q", lines[0], "短行")
	}
	for _, l := range lines {
		if n := len([]rune(l)); n > 5 {
			t.Fatalf("line %q exceeds width: %d runes", l, n)
		}
	}
	if joined := strings.Join(lines, ""); !strings.Contains(joined, "这是一个很长的段落") {
		t.Fatalf("wrapped text lost content: %q", joined)
	}
}
