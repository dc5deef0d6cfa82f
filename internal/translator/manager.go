package translator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/internal/config"
	"github.com/dextermorgenk/go-doc-translator/internal/stats"
	"github.com/dextermorgenk/go-doc-translator/pkg/providers/gemini"
	"github.com/dextermorgenk/go-doc-translator/pkg/providers/groq"
	"github.com/dextermorgenk/go-doc-translator/pkg/providers/localdict"
	"github.com/dextermorgenk/go-doc-translator/pkg/translation"
)

// Manager 把配置、密钥池、三层提供商和编排器装配成可用的翻译服务
type Manager struct {
	cfg    *config.Config
	logger *zap.Logger

	pool       *translation.KeyPool
	geminiProv *gemini.Provider
	local      *localdict.Provider

	tiers      []translation.Tier
	opts       []translation.TranslatorOption
	translator *translation.DocumentTranslator
}

// NewManager 装配翻译服务。没有AI凭据时降级为纯本地词典模式（非致命）。
func NewManager(cfg *config.Config, statsDB *stats.Database, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		cfg:    cfg,
		logger: logger,
	}

	m.pool = translation.NewKeyPool(cfg.GeminiKeys(), cfg.KeyCooldown, logger)

	geminiCfg := gemini.DefaultConfig()
	geminiCfg.Model = cfg.GeminiModel
	geminiCfg.Timeout = cfg.RequestTimeout
	geminiCfg.MaxRetries = cfg.MaxRetries
	geminiCfg.RetryDelay = cfg.RetryDelay
	m.geminiProv = gemini.New(geminiCfg, m.pool, logger.Named("gemini"))

	groqCfg := groq.DefaultConfig()
	groqCfg.APIKey = cfg.GroqAPIKey
	groqCfg.Model = cfg.GroqModel
	groqCfg.Temperature = cfg.GroqTemperature
	groqCfg.MaxTokens = cfg.GroqMaxTokens
	groqCfg.Timeout = cfg.RequestTimeout
	groqProv := groq.New(groqCfg, logger.Named("groq"))

	m.local = localdict.New(logger.Named("localdict"))
	if cfg.DictionaryPath != "" {
		if err := m.local.LoadOverlay(cfg.DictionaryPath); err != nil {
			// 覆盖词典缺失不致命，内置词典照常工作
			logger.Warn("覆盖词典加载失败，仅用内置词典", zap.Error(err))
		}
	}

	if !cfg.HasAICredentials() {
		logger.Warn("未配置任何AI密钥，进入纯本地词典模式：翻译质量会明显下降")
	}

	m.tiers = []translation.Tier{
		{Provider: m.geminiProv, Gate: translation.NewAdmissionGate(cfg.MaxConcurrent)},
		{Provider: groqProv, Gate: translation.NewAdmissionGate(cfg.MaxConcurrent)},
		{Provider: m.local, Terminal: true},
	}

	if statsDB != nil {
		m.opts = append(m.opts, translation.WithJobObserver(func(report *translation.JobReport) {
			if err := statsDB.RecordJob(report); err != nil {
				logger.Warn("用量统计写入失败", zap.Error(err))
			}
		}))
	}

	if err := m.rebuildTranslator(cfg.TargetLanguage); err != nil {
		return nil, err
	}
	return m, nil
}

// TranslateLines 翻译文档行序列
func (m *Manager) TranslateLines(ctx context.Context, lines []string, progress translation.ProgressFunc) ([]translation.Pair, error) {
	return m.translator.TranslateLines(ctx, lines, progress)
}

// SetTargetLanguage 切换目标语言（下一次 TranslateLines 生效）
func (m *Manager) SetTargetLanguage(lang string) error {
	if lang == "" {
		return fmt.Errorf("target language must not be empty")
	}
	m.cfg.TargetLanguage = lang
	return m.rebuildTranslator(lang)
}

// TargetLanguage 当前目标语言
func (m *Manager) TargetLanguage() string {
	return m.cfg.TargetLanguage
}

// PoolStatus 密钥池状态（脱敏）
func (m *Manager) PoolStatus() translation.PoolStatus {
	return m.pool.Status()
}

// AddKey 运行时添加Gemini密钥
func (m *Manager) AddKey(name, key string) bool {
	return m.pool.Add(name, key)
}

// RemoveKey 运行时移除Gemini密钥
func (m *Manager) RemoveKey(name string) bool {
	return m.pool.Remove(name)
}

// ProbeKey 用指定凭据做一次试探性翻译，验证密钥有效性
func (m *Manager) ProbeKey(ctx context.Context, name string) error {
	key, ok := m.pool.Secret(name)
	if !ok {
		return fmt.Errorf("credential %q not found", name)
	}
	return m.geminiProv.Probe(ctx, key)
}

// Dictionary 本地词典（管理命令用）
func (m *Manager) Dictionary() *localdict.Provider {
	return m.local
}

// Close 释放资源
func (m *Manager) Close() {
	m.pool.Close()
}

// rebuildTranslator 编排器配置是值语义，换目标语言直接重建（门闸和提供商复用）
func (m *Manager) rebuildTranslator(lang string) error {
	trCfg := translation.TranslatorConfig{
		TargetLanguage: lang,
		MaxRetries:     m.cfg.MaxRetries,
		RetryDelay:     m.cfg.RetryDelay,
		ChunkMaxLines:  m.cfg.ChunkMaxLines,
	}
	tr, err := translation.NewDocumentTranslator(trCfg, m.tiers, m.logger.Named("orchestrator"), m.opts...)
	if err != nil {
		return fmt.Errorf("failed to build document translator: %w", err)
	}
	m.translator = tr
	return nil
}
