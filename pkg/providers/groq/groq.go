package groq

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/providers"
	"github.com/dextermorgenk/go-doc-translator/pkg/translation"
)

const (
	// DefaultEndpoint Groq的OpenAI兼容端点
	DefaultEndpoint = "https://api.groq.com/openai/v1"

	// DefaultModel 默认模型
	DefaultModel = "llama-3.3-70b-versatile"

	// DefaultTemperature 默认采样温度
	DefaultTemperature = 0.3

	// DefaultMaxTokens 默认最大生成token数
	DefaultMaxTokens = 2048
)

// Config Groq提供商配置
type Config struct {
	providers.BaseConfig

	// API密钥（单密钥，不走密钥池）
	APIKey string `json:"api_key"`

	// 模型与采样参数
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	base := providers.DefaultConfig()
	base.APIEndpoint = DefaultEndpoint
	return Config{
		BaseConfig:  base,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Provider Groq翻译提供商：走OpenAI兼容的chat completions接口
type Provider struct {
	config Config
	client *openai.Client
	logger *zap.Logger
}

// New 创建Groq提供商
func New(config Config, logger *zap.Logger) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultEndpoint
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultTemperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(config.APIKey)
	clientCfg.BaseURL = config.APIEndpoint
	if config.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "groq"
}

// Translate 翻译单个文本
func (p *Provider) Translate(ctx context.Context, req *translation.ProviderRequest) (*translation.ProviderResponse, error) {
	text, err := p.complete(ctx, translation.BuildSinglePrompt(req.Text, req.TargetLanguage))
	if err != nil {
		return nil, err
	}
	return &translation.ProviderResponse{Text: strings.TrimSpace(text), Model: p.config.Model}, nil
}

// TranslateBatch 批量翻译：编号提示词 + 按编号解析
func (p *Provider) TranslateBatch(ctx context.Context, req *translation.BatchRequest) (*translation.BatchResponse, error) {
	raw, err := p.complete(ctx, translation.BuildBatchPrompt(req.Lines, req.TargetLanguage))
	if err != nil {
		return nil, err
	}
	return &translation.BatchResponse{
		Lines: translation.ParseBatchResponse(raw, req.Lines),
		Model: p.config.Model,
	}, nil
}

// complete 执行一次chat completion请求
func (p *Provider) complete(ctx context.Context, prompt string) (string, error) {
	if p.config.APIKey == "" {
		return "", providers.NewError(providers.ErrCodeNoCredentials, "groq api key is not configured")
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		perr := classifyError(err)
		p.logger.Warn("Groq请求失败", zap.String("code", perr.Code), zap.Error(err))
		return "", perr
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", providers.NewError(providers.ErrCodeEmptyResponse, "groq returned empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError OpenAI客户端错误到统一错误分类的映射
func classifyError(err error) *providers.Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			strings.Contains(strings.ToLower(apiErr.Message), "quota") ||
			strings.Contains(strings.ToLower(apiErr.Message), "rate limit"):
			return providers.WrapError(providers.ErrCodeQuotaExceeded, "groq quota exceeded: "+apiErr.Message, err)
		case apiErr.HTTPStatusCode >= 500:
			return providers.WrapError(providers.ErrCodeServer, "groq server error: "+apiErr.Message, err)
		default:
			return providers.WrapError(providers.ErrCodePermanent, "groq api error: "+apiErr.Message, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return providers.WrapError(providers.ErrCodeTimeout, "groq request timed out", err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return providers.WrapError(providers.ErrCodeQuotaExceeded, "groq quota exceeded", err)
		}
		if reqErr.HTTPStatusCode >= 500 {
			return providers.WrapError(providers.ErrCodeServer, "groq server error", err)
		}
		return providers.WrapError(providers.ErrCodePermanent, "groq request rejected", err)
	}

	return providers.WrapError(providers.ErrCodeNetwork, "groq request failed", err)
}
