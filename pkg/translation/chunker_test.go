package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineChunkerBoundaries(t *testing.T) {
	c := NewLineChunker(5)

	t.Run("terminal punctuation closes unit", func(t *testing.T) {
		lines := []string{
			"This is a heading",
			"continuing the thought.",
			"Next paragraph starts here",
		}
		chunks := c.Chunk(lines)

		require.Len(t, chunks, 2)
		assert.Equal(t, []string{"This is a heading", "continuing the thought."}, chunks[0].Lines)
		assert.Equal(t, 0, chunks[0].StartIndex)
		assert.Equal(t, []string{"Next paragraph starts here"}, chunks[1].Lines)
		assert.Equal(t, 2, chunks[1].StartIndex)
	})

	t.Run("five line cap closes unit", func(t *testing.T) {
		lines := []string{"a", "b", "c", "d", "e", "f", "g"}
		chunks := c.Chunk(lines)

		require.Len(t, chunks, 2)
		assert.Len(t, chunks[0].Lines, 5)
		assert.Len(t, chunks[1].Lines, 2)
		assert.Equal(t, 5, chunks[1].StartIndex)
	})

	t.Run("empty line emits marker unit", func(t *testing.T) {
		lines := []string{"First line", "", "Second line."}
		chunks := c.Chunk(lines)

		require.Len(t, chunks, 3)
		assert.False(t, chunks[0].Empty)
		assert.True(t, chunks[1].Empty)
		assert.Equal(t, 1, chunks[1].StartIndex)
		assert.False(t, chunks[2].Empty)
	})

	t.Run("whitespace only line is a marker too", func(t *testing.T) {
		chunks := c.Chunk([]string{"text", "   \t", "more text."})

		require.Len(t, chunks, 3)
		assert.True(t, chunks[1].Empty)
		// 标记单元保留原始行内容用于输出对齐
		assert.Equal(t, []string{"   \t"}, chunks[1].Lines)
	})

	t.Run("math line closes unit", func(t *testing.T) {
		lines := []string{"Consider the equation", "x = 2y + 1", "which we solve next"}
		chunks := c.Chunk(lines)

		require.Len(t, chunks, 2)
		assert.Equal(t, []string{"Consider the equation", "x = 2y + 1"}, chunks[0].Lines)
	})

	t.Run("all lines covered in order", func(t *testing.T) {
		lines := []string{"one", "two.", "", "three!", "four", "five", "六", "seven", "eight?"}
		chunks := c.Chunk(lines)

		var flat []string
		next := 0
		for _, ch := range chunks {
			assert.Equal(t, next, ch.StartIndex)
			flat = append(flat, ch.Lines...)
			next += len(ch.Lines)
		}
		assert.Equal(t, lines, flat)
	})

	t.Run("exclamation question colon all terminate", func(t *testing.T) {
		chunks := c.Chunk([]string{"wow!", "really?", "note:", "plain"})
		assert.Len(t, chunks, 4)
	})
}

func TestIsMathLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"inline dollar formula", "$E = mc^2$", true},
		{"latex command", `\frac{a}{b}`, true},
		{"digit equation", "2 + 2 = 4", true},
		{"algebra assignment", "x = 2y + 1", true},
		{"trig function", "sin(x) + cos(x)", true},
		{"plain prose", "The result was surprising", false},
		{"prose with one number", "Chapter 5 begins here", false},
		{"empty", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMathLine(tt.line))
		})
	}
}
