package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/providers"
)

// Tier 一个提供商层级：提供商实例加上它自己的准入门闸。
// 门闸属于层级而不是提供商，同一提供商可在不同编排器里用不同并发上限。
type Tier struct {
	Provider Provider
	Gate     *AdmissionGate

	// Terminal 终端层级：不计入失败重试，结果直接采纳（本地词典）
	Terminal bool
}

// TranslatorConfig 编排器配置
type TranslatorConfig struct {
	// 目标语言
	TargetLanguage string `json:"target_language"`

	// 每个AI层级的最大尝试次数
	MaxRetries int `json:"max_retries"`

	// 重试间隔（瞬时错误退避的基准值）
	RetryDelay time.Duration `json:"retry_delay"`

	// 单元最大行数
	ChunkMaxLines int `json:"chunk_max_lines"`
}

// DefaultTranslatorConfig 返回默认编排器配置
func DefaultTranslatorConfig() TranslatorConfig {
	return TranslatorConfig{
		TargetLanguage: "Arabic",
		MaxRetries:     3,
		RetryDelay:     500 * time.Millisecond,
		ChunkMaxLines:  DefaultChunkMaxLines,
	}
}

// DocumentTranslator 文档翻译编排器。
// 每个单元经过 掩码 -> 主AI -> 备AI -> 本地词典 的降级链，
// 终端层级保证翻译永不整体失败。
type DocumentTranslator struct {
	config  TranslatorConfig
	chunker Chunker
	guard   *MathGuard
	tiers   []Tier
	logger  *zap.Logger

	observer JobObserver
}

// TranslatorOption 编排器选项
type TranslatorOption func(*DocumentTranslator)

// WithChunker 使用自定义分块器
func WithChunker(c Chunker) TranslatorOption {
	return func(t *DocumentTranslator) { t.chunker = c }
}

// WithJobObserver 注册任务完成回调（用量统计等）
func WithJobObserver(fn JobObserver) TranslatorOption {
	return func(t *DocumentTranslator) { t.observer = fn }
}

// NewDocumentTranslator 创建编排器。tiers 按降级顺序排列，
// 最后一层应为终端层级（Terminal=true），否则全失败时整体报错。
func NewDocumentTranslator(config TranslatorConfig, tiers []Tier, logger *zap.Logger, opts ...TranslatorOption) (*DocumentTranslator, error) {
	if len(tiers) == 0 {
		return nil, errors.New("at least one provider tier is required")
	}
	if config.TargetLanguage == "" {
		config.TargetLanguage = "Arabic"
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	for i := range tiers {
		if tiers[i].Gate == nil {
			tiers[i].Gate = NewAdmissionGate(DefaultGateSize)
		}
	}

	t := &DocumentTranslator{
		config:  config,
		chunker: NewLineChunker(config.ChunkMaxLines),
		guard:   NewMathGuard(),
		tiers:   tiers,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// TranslateLines 翻译整个文档的行序列。
// 返回与输入等长、同序的结果对；空行的译文为空字符串。
// 单元之间检查 ctx，取消时返回已累计的部分结果和 ctx 错误。
func (t *DocumentTranslator) TranslateLines(ctx context.Context, lines []string, progress ProgressFunc) ([]Pair, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	report := &JobReport{
		ID:         uuid.New().String(),
		Lines:      len(lines),
		TierCounts: make(map[string]int),
		StartedAt:  time.Now(),
	}

	chunks := t.chunker.Chunk(lines)
	report.Chunks = len(chunks)

	t.logger.Info("开始翻译文档",
		zap.String("job_id", report.ID),
		zap.Int("lines", len(lines)),
		zap.Int("chunks", len(chunks)),
		zap.String("target_language", t.config.TargetLanguage))

	pairs := make([]Pair, 0, len(lines))
	processed := 0
	maskIndex := 0

	for _, chunk := range chunks {
		// 单元之间的协作式取消点
		select {
		case <-ctx.Done():
			t.finish(report)
			return pairs, ctx.Err()
		default:
		}

		if chunk.Empty {
			pairs = append(pairs, Pair{Original: chunk.Lines[0], Translated: ""})
			processed++
			t.reportProgress(progress, processed, len(lines), "skip empty line")
			continue
		}

		// 掩码数学表达式，跨单元累计占位符编号
		masked := make([]string, len(chunk.Lines))
		expressions := make(map[string]string)
		for i, line := range chunk.Lines {
			m, exprs := t.guard.Mask(line, maskIndex)
			masked[i] = m
			maskIndex += len(exprs)
			for k, v := range exprs {
				expressions[k] = v
			}
		}

		translated, tierName, err := t.translateChunk(ctx, masked, report)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				t.finish(report)
				return pairs, err
			}
			// 所有层级失败（终端层级缺失或异常）：原文透传
			t.logger.Error("翻译单元全部层级失败，原文透传",
				zap.String("job_id", report.ID),
				zap.Int("start_index", chunk.StartIndex),
				zap.Error(err))
			translated = masked
			tierName = "passthrough"
		}
		report.TierCounts[tierName]++

		for i, line := range chunk.Lines {
			out := translated[i]
			out = t.guard.Unmask(out, expressions)
			pairs = append(pairs, Pair{Original: line, Translated: out})
		}
		processed += len(chunk.Lines)
		t.reportProgress(progress, processed, len(lines),
			fmt.Sprintf("%s lines %d-%d", tierName, chunk.StartIndex+1, chunk.StartIndex+len(chunk.Lines)))
	}

	t.finish(report)
	t.logger.Info("文档翻译完成",
		zap.String("job_id", report.ID),
		zap.Int("lines", len(pairs)),
		zap.Duration("duration", report.Duration),
		zap.Any("tier_counts", report.TierCounts))
	return pairs, nil
}

// translateChunk 沿降级链翻译一个单元。
// 返回与输入等长的译文行、完成层级的名称。
func (t *DocumentTranslator) translateChunk(ctx context.Context, lines []string, report *JobReport) ([]string, string, error) {
	var lastErr error

	for _, tier := range t.tiers {
		name := tier.Provider.GetName()

		out, err := t.tryTier(ctx, tier, lines, report)
		if err == nil {
			if len(out) != len(lines) {
				// 提供商返回行数错乱：整体丢弃，降级到下一层
				lastErr = fmt.Errorf("provider %s returned %d lines for %d inputs", name, len(out), len(lines))
				t.logger.Warn("批量响应行数不匹配，降级", zap.String("provider", name), zap.Error(lastErr))
				continue
			}
			return out, name, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, name, err
		}

		lastErr = err
		t.logger.Warn("提供商层级耗尽，降级到下一层",
			zap.String("provider", name),
			zap.Error(err))
	}

	return nil, "", fmt.Errorf("%w: %v", ErrAllTiersFailed, lastErr)
}

// tryTier 在单个层级内执行重试循环。
// 配额错误立即重试（密钥池已轮换到其他密钥）；瞬时错误按 RetryDelay 退避；
// 永久错误立即放弃该层级。终端层级只尝试一次。
func (t *DocumentTranslator) tryTier(ctx context.Context, tier Tier, lines []string, report *JobReport) ([]string, error) {
	attempts := t.config.MaxRetries
	if tier.Terminal {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := tier.Gate.Acquire(ctx); err != nil {
			return nil, err
		}
		resp, err := tier.Provider.TranslateBatch(ctx, &BatchRequest{
			Lines:          lines,
			TargetLanguage: t.config.TargetLanguage,
		})
		tier.Gate.Release()

		if err == nil {
			return resp.Lines, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		lastErr = err

		switch {
		case providers.IsQuotaExceeded(err):
			// 密钥池已把失败密钥隔离，下一次选择会轮换，无需等待
			report.QuotaFailures++
			continue
		case providers.IsRetryable(err):
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(t.backoff(attempt)):
			}
		default:
			// 永久错误：同层重试无意义
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// backoff 同层重试的退避时间：500ms、1s、1s…（封顶为基准的两倍）
func (t *DocumentTranslator) backoff(attempt int) time.Duration {
	if attempt == 0 {
		return t.config.RetryDelay
	}
	return 2 * t.config.RetryDelay
}

func (t *DocumentTranslator) reportProgress(progress ProgressFunc, current, total int, stage string) {
	if progress != nil {
		progress(current, total, stage)
	}
}

func (t *DocumentTranslator) finish(report *JobReport) {
	report.Duration = time.Since(report.StartedAt)
	if t.observer != nil {
		t.observer(report)
	}
}
