package translation

import (
	"strings"
	"time"
)

// Pair 翻译结果对：每个输入行对应一个 Pair，顺序与输入一致
type Pair struct {
	// 原始行文本
	Original string `json:"original"`

	// 翻译后文本（空行为空字符串）
	Translated string `json:"translated"`
}

// Chunk 翻译单元：Chunker 输出的一组连续行
type Chunk struct {
	// 单元内的行（保持输入顺序）
	Lines []string `json:"lines"`

	// 起始行在原始输入中的下标
	StartIndex int `json:"start_index"`

	// 空行标记单元：不发送给提供商，只用于对齐输出
	Empty bool `json:"empty,omitempty"`
}

// Text 返回单元内容合并后的文本（按换行连接）
func (c *Chunk) Text() string {
	return strings.Join(c.Lines, "\n")
}

// ProviderRequest 单文本翻译请求
type ProviderRequest struct {
	// 待翻译文本
	Text string `json:"text"`

	// 目标语言（如 "Arabic"）
	TargetLanguage string `json:"target_language"`
}

// ProviderResponse 单文本翻译响应
type ProviderResponse struct {
	// 翻译结果
	Text string `json:"text"`

	// 实际使用的模型
	Model string `json:"model,omitempty"`
}

// BatchRequest 批量翻译请求：按行对齐
type BatchRequest struct {
	// 待翻译的行
	Lines []string `json:"lines"`

	// 目标语言
	TargetLanguage string `json:"target_language"`
}

// BatchResponse 批量翻译响应：Lines 与请求行一一对应
type BatchResponse struct {
	Lines []string `json:"lines"`
	Model string   `json:"model,omitempty"`
}

// JobReport 单次文档翻译任务的遥测报告
type JobReport struct {
	// 任务ID
	ID string `json:"id"`

	// 输入行数
	Lines int `json:"lines"`

	// 分块数量（含空行标记单元）
	Chunks int `json:"chunks"`

	// 各提供商完成的块数（键为提供商名称）
	TierCounts map[string]int `json:"tier_counts"`

	// 配额失败次数
	QuotaFailures int `json:"quota_failures"`

	// 任务开始时间与耗时
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
