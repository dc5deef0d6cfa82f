package translation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMathGuardMask(t *testing.T) {
	g := NewMathGuard()

	t.Run("inline formula", func(t *testing.T) {
		masked, exprs := g.Mask("The formula $E = mc^2$ is famous.", 0)

		require.Len(t, exprs, 1)
		assert.NotContains(t, masked, "$E = mc^2$")
		assert.Contains(t, masked, "@@MATH_0@@")
		assert.Equal(t, "$E = mc^2$", exprs["@@MATH_0@@"])
	})

	t.Run("block formula takes priority over inline", func(t *testing.T) {
		masked, exprs := g.Mask("$$\\sum_{i=1}^n i$$", 0)

		require.Len(t, exprs, 1)
		assert.Equal(t, "@@MATH_0@@", strings.TrimSpace(masked))
	})

	t.Run("digit equation", func(t *testing.T) {
		masked, exprs := g.Mask("We know 2 + 2 = 4 since childhood.", 0)

		require.Len(t, exprs, 1)
		assert.NotContains(t, masked, "2 + 2 = 4")
	})

	t.Run("latex command with braces", func(t *testing.T) {
		_, exprs := g.Mask(`See \frac{1}{2} for details.`, 0)
		require.Len(t, exprs, 1)
		assert.Equal(t, `\frac{1}{2}`, exprs["@@MATH_0@@"])
	})

	t.Run("plain text untouched", func(t *testing.T) {
		text := "No mathematics in this sentence at all."
		masked, exprs := g.Mask(text, 0)

		assert.Equal(t, text, masked)
		assert.Empty(t, exprs)
	})

	t.Run("start index offsets placeholders", func(t *testing.T) {
		masked, exprs := g.Mask("value $a+b$ here", 7)

		assert.Contains(t, masked, "@@MATH_7@@")
		assert.Equal(t, "$a+b$", exprs["@@MATH_7@@"])
	})
}

func TestMathGuardRoundTrip(t *testing.T) {
	g := NewMathGuard()

	tests := []struct {
		name string
		text string
	}{
		{"inline formula", "Einstein wrote $E = mc^2$ in 1905."},
		{"multiple formulas", "Both $a^2$ and $b^2$ appear in $c^2 = a^2 + b^2$."},
		{"digit equation", "Verify that 12 * 3 = 36 holds."},
		{"mixed latex", `The term \sqrt{2} is irrational.`},
		{"no math", "Plain prose survives unchanged."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked, exprs := g.Mask(tt.text, 0)
			restored := g.Unmask(masked, exprs)

			// 掩码-还原往返必须恢复原文
			assert.Equal(t, tt.text, restored)
		})
	}
}

func TestMathGuardUnmaskSurvivesTranslation(t *testing.T) {
	g := NewMathGuard()

	// 模拟翻译：占位符周围的文本被改写，占位符本身原样保留
	masked, exprs := g.Mask("The formula $x^2 + y^2$ matters.", 0)
	require.Contains(t, masked, "@@MATH_0@@")

	translated := strings.Replace(masked, "The formula", "الصيغة", 1)
	translated = strings.Replace(translated, "matters.", "مهمة.", 1)

	restored := g.Unmask(translated, exprs)
	assert.Contains(t, restored, "$x^2 + y^2$")
	assert.NotContains(t, restored, "@@MATH_")
}

func TestMathGuardUnmaskUnknownPlaceholder(t *testing.T) {
	g := NewMathGuard()

	// 未知占位符保持原样，不报错
	out := g.Unmask("text @@MATH_99@@ end", map[string]string{"@@MATH_0@@": "$x$"})
	assert.Equal(t, "text @@MATH_99@@ end", out)
}
