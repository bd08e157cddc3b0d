package textfmt

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("breaks at word boundaries", func(t *testing.T) {
		lines := Wrap("the quick brown fox jumps over the lazy dog", 10)
		assert.Equal(t, []string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}, lines)
		for _, l := range lines {
			assert.LessOrEqual(t, runewidth.StringWidth(l), 10)
		}
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, []string{"a b c"}, Wrap("  a \n b\t c  ", 20))
	})

	t.Run("long word gets its own line", func(t *testing.T) {
		assert.Equal(t, []string{"a", "supercalifragilistic", "b"}, Wrap("a supercalifragilistic b", 5))
	})

	t.Run("counts wide runes as two columns", func(t *testing.T) {
		lines := Wrap("千と千尋 の神隠し", 8)
		assert.Equal(t, []string{"千と千尋", "の神隠し"}, lines)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Wrap("   ", 10))
	})

	t.Run("non-positive width keeps one line", func(t *testing.T) {
		assert.Equal(t, []string{"a b"}, Wrap("a  b", 0))
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "Fight Club", 20, "Fight Club"},
		{"exact", "Fight Club", 10, "Fight Club"},
		{"cut", "The Shawshank Redemption", 12, "The Shaws..."},
		{"wide runes", "千と千尋の神隠し", 9, "千と千..."},
		{"tiny width", "Breaking Bad", 2, ".."},
		{"zero width", "Breaking Bad", 0, "Breaking Bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.width)
			assert.Equal(t, tt.want, got)
			if tt.width > 0 {
				assert.LessOrEqual(t, runewidth.StringWidth(got), tt.width)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	overview := "A ticking-time-bomb insomniac and a slippery soap salesman channel primal male aggression into a shocking new form of therapy."

	t.Run("keeps short text intact", func(t *testing.T) {
		assert.Equal(t, "short text", Clamp("short text", 3, 40))
	})

	t.Run("limits line count and marks the cut", func(t *testing.T) {
		got := Clamp(overview, 2, 30)
		lines := strings.Split(got, "\n")
		assert.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[1], "..."))
		for _, l := range lines {
			assert.LessOrEqual(t, runewidth.StringWidth(l), 30)
		}
	})

	t.Run("narrow width never exceeds the limit", func(t *testing.T) {
		for _, width := range []int{1, 2, 3} {
			got := Clamp("alpha beta gamma delta", 1, width)
			assert.LessOrEqual(t, runewidth.StringWidth(got), width)
			assert.Equal(t, "..."[:width], got)
		}
	})

	t.Run("zero lines means unlimited", func(t *testing.T) {
		assert.Equal(t, strings.Join(Wrap(overview, 30), "\n"), Clamp(overview, 0, 30))
	})
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b", Indent("a\nb", "  "))
	assert.Equal(t, "", Indent("", "  "))
}
