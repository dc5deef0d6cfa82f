package translation

import (
	"context"
)

// Provider 翻译提供商接口（Gemini、Groq、本地词典等）
type Provider interface {
	// Translate 翻译单个文本块
	Translate(ctx context.Context, req *ProviderRequest) (*ProviderResponse, error)

	// TranslateBatch 批量翻译：一次请求翻译多行，按行对齐返回
	TranslateBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, error)

	// GetName 获取提供商名称
	GetName() string
}

// Chunker 行分块器接口
type Chunker interface {
	// Chunk 将有序行序列分组为翻译单元
	Chunk(lines []string) []Chunk
}

// ProgressFunc 进度回调：每个块处理完后调用 (已处理行数, 总行数, 阶段描述)
// 回调方负责渲染，不得长时间阻塞核心流程
type ProgressFunc func(current, total int, stage string)

// JobObserver 文档任务完成后的遥测回调
type JobObserver func(report *JobReport)
