package translation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numberedLineRe 匹配编号响应行："1. text" 或 "1) text"
var numberedLineRe = regexp.MustCompile(`^\s*(\d+)[.)]\s*(.*)$`)

// BuildBatchPrompt 构造编号批量翻译提示词。
// 每行带编号，要求模型按相同编号逐行返回，保证行对齐。
func BuildBatchPrompt(lines []string, targetLanguage string) string {
	var sb strings.Builder
	sb.WriteString("Translate the following numbered lines to ")
	sb.WriteString(targetLanguage)
	sb.WriteString(".\n")
	sb.WriteString("Return ONLY the translations, one per line, keeping the same numbering.\n")
	sb.WriteString("Do not translate or alter placeholder tokens like @@MATH_0@@.\n\n")
	for i, line := range lines {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, line)
	}
	return sb.String()
}

// ParseBatchResponse 按编号解析批量响应，返回与 originals 等长的切片。
// 无法恢复的条目（缺号、空翻译、格式错乱）回退为对应的原文行。
func ParseBatchResponse(response string, originals []string) []string {
	parsed := make(map[int]string, len(originals))
	lastNum := 0

	for _, raw := range strings.Split(response, "\n") {
		if m := numberedLineRe.FindStringSubmatch(raw); m != nil {
			num, err := strconv.Atoi(m[1])
			if err != nil || num < 1 || num > len(originals) {
				continue
			}
			parsed[num] = strings.TrimSpace(m[2])
			lastNum = num
			continue
		}
		// 无编号的行视为上一条目的续行
		if lastNum > 0 && strings.TrimSpace(raw) != "" {
			parsed[lastNum] = strings.TrimSpace(parsed[lastNum] + " " + strings.TrimSpace(raw))
		}
	}

	out := make([]string, len(originals))
	for i, original := range originals {
		if t, ok := parsed[i+1]; ok && t != "" {
			out[i] = t
		} else {
			out[i] = original
		}
	}
	return out
}

// BuildSinglePrompt 构造单文本翻译提示词
func BuildSinglePrompt(text, targetLanguage string) string {
	var sb strings.Builder
	sb.WriteString("Translate the following text to ")
	sb.WriteString(targetLanguage)
	sb.WriteString(". Return ONLY the translation, nothing else.\n")
	sb.WriteString("Do not translate or alter placeholder tokens like @@MATH_0@@.\n\n")
	sb.WriteString(text)
	return sb.String()
}
