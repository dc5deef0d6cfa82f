package translation

import (
	"fmt"
	"regexp"
	"strings"
)

// mathPlaceholderFormat 占位符格式：纯ASCII，翻译提供商不会改写
const mathPlaceholderFormat = "@@MATH_%d@@"

// 掩码模式，按固定优先级排列：先整体后局部，避免块级公式被行内模式拆散
var maskPatterns = []*regexp.Regexp{
	// $$...$$ 块级公式
	regexp.MustCompile(`\$\$[^$]+\$\$`),
	// $...$ 行内公式
	regexp.MustCompile(`\$[^$\n]+\$`),
	// \cmd{...} LaTeX 命令
	regexp.MustCompile(`\\[a-zA-Z]+\{[^}]*\}`),
	// 数字算式：1 + 2 = 3（允许多个操作数）
	regexp.MustCompile(`\b\d+(?:\s*[-+*/=×÷]\s*\d+)+\b`),
	// 单字母代数式：x = 2y + 1
	regexp.MustCompile(`\b[a-zA-Z]\s*=\s*[0-9a-zA-Z+\-*/^(). ]+`),
}

// MathGuard 数学表达式保护器：翻译前将公式替换为占位符，翻译后还原。
// 与 PreserveManager 同一套占位符约定。
type MathGuard struct{}

// NewMathGuard 创建数学表达式保护器
func NewMathGuard() *MathGuard {
	return &MathGuard{}
}

// Mask 将文本中的数学表达式替换为占位符。
// 返回掩码后的文本和 占位符->原始表达式 的映射；无公式时映射为空。
// 占位符编号从 startIndex 开始，便于同一文档跨行累计不冲突。
func (g *MathGuard) Mask(text string, startIndex int) (string, map[string]string) {
	expressions := make(map[string]string)
	counter := startIndex

	masked := text
	for _, re := range maskPatterns {
		masked = re.ReplaceAllStringFunc(masked, func(match string) string {
			// 不要二次掩码占位符本身
			if strings.Contains(match, "@@MATH_") {
				return match
			}
			placeholder := fmt.Sprintf(mathPlaceholderFormat, counter)
			expressions[placeholder] = match
			counter++
			return placeholder
		})
	}

	return masked, expressions
}

// Unmask 将占位符替换回原始数学表达式。
// 未知占位符保持原样；映射中多余的条目被忽略。
func (g *MathGuard) Unmask(text string, expressions map[string]string) string {
	if len(expressions) == 0 {
		return text
	}
	restored := text
	for placeholder, original := range expressions {
		restored = strings.ReplaceAll(restored, placeholder, original)
	}
	return restored
}
