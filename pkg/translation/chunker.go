package translation

import (
	"regexp"
	"strings"
)

// DefaultChunkMaxLines 单个翻译单元的最大行数
const DefaultChunkMaxLines = 5

// 句末标点：遇到即关闭当前单元
var terminalPunctuation = []string{".", "!", "?", ":"}

// 独立数学行的启发式模式
var mathLinePatterns = []*regexp.Regexp{
	// 整行为 $...$ 或 $$...$$ 公式
	regexp.MustCompile(`^\s*\$\$?[^$]+\$\$?\s*$`),
	// 含 LaTeX 命令
	regexp.MustCompile(`\\[a-zA-Z]+`),
	// 纯数字算式：1 + 2 = 3
	regexp.MustCompile(`^\s*\d+(\s*[-+*/=×÷]\s*\d+)+\s*$`),
	// 单字母代数式：x = 2y + 1
	regexp.MustCompile(`^\s*[A-Za-z]\s*=\s*[0-9A-Za-z+\-*/^().\s]+$`),
	// 常见数学函数调用
	regexp.MustCompile(`\b(sin|cos|tan|log|ln|exp|sqrt)\s*\(`),
}

// LineChunker 行分块器：把有序行序列切成翻译单元。
// 关闭单元的条件：行尾句末标点、达到行数上限、或该行是独立数学行。
// 空行关闭当前单元并生成零内容标记单元，保证输出对齐。
type LineChunker struct {
	maxLines int
}

// NewLineChunker 创建行分块器。maxLines <= 0 时使用默认值。
func NewLineChunker(maxLines int) *LineChunker {
	if maxLines <= 0 {
		maxLines = DefaultChunkMaxLines
	}
	return &LineChunker{maxLines: maxLines}
}

// Chunk 切分行序列。输出单元覆盖每一行且保持输入顺序。
func (c *LineChunker) Chunk(lines []string) []Chunk {
	var chunks []Chunk
	var current []string
	start := 0

	flush := func(next int) {
		if len(current) > 0 {
			chunks = append(chunks, Chunk{Lines: current, StartIndex: start})
			current = nil
		}
		start = next
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush(i)
			chunks = append(chunks, Chunk{Lines: []string{line}, StartIndex: i, Empty: true})
			start = i + 1
			continue
		}

		current = append(current, line)
		if endsWithTerminal(line) || len(current) >= c.maxLines || IsMathLine(line) {
			flush(i + 1)
		}
	}
	flush(len(lines))

	return chunks
}

// endsWithTerminal 判断行是否以句末标点结尾
func endsWithTerminal(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	for _, p := range terminalPunctuation {
		if strings.HasSuffix(trimmed, p) {
			return true
		}
	}
	return false
}

// IsMathLine 判断整行是否为独立数学/公式行
func IsMathLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, re := range mathLinePatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
