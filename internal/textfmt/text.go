// Package textfmt lays out terminal text by display width, so CJK titles
// and emoji line up with ASCII ones.
package textfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// Wrap breaks text at word boundaries into lines no wider than maxWidth.
// Words wider than maxWidth get a line of their own.
func Wrap(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if maxWidth <= 0 {
		if len(words) == 0 {
			return nil
		}
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var line strings.Builder
	width := 0

	for _, word := range words {
		w := runewidth.StringWidth(word)
		switch {
		case width == 0:
			line.WriteString(word)
			width = w
		case width+1+w <= maxWidth:
			line.WriteByte(' ')
			line.WriteString(word)
			width += 1 + w
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			width = w
		}
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// Truncate shortens text to maxWidth display columns, marking the cut with "..."
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= len(ellipsis) {
		return ellipsis[:maxWidth]
	}

	width := 0
	for i, r := range text {
		width += runewidth.RuneWidth(r)
		if width > maxWidth-len(ellipsis) {
			return text[:i] + ellipsis
		}
	}
	return text
}

// Clamp wraps text and keeps at most maxLines lines, ending the last kept
// line with "..." when anything was dropped.
func Clamp(text string, maxLines, maxWidth int) string {
	lines := Wrap(text, maxWidth)
	if maxLines <= 0 || len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}

	kept := lines[:maxLines]
	if maxWidth <= len(ellipsis) {
		kept[maxLines-1] = ellipsis[:max(maxWidth, 0)]
	} else {
		kept[maxLines-1] = runewidth.Truncate(kept[maxLines-1], maxWidth-len(ellipsis), "") + ellipsis
	}
	return strings.Join(kept, "\n")
}

// Indent prefixes every line of text with prefix
func Indent(text, prefix string) string {
	if text == "" {
		return ""
	}
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}
