package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/providers"
	"github.com/dextermorgenk/go-doc-translator/pkg/providers/retry"
	"github.com/dextermorgenk/go-doc-translator/pkg/translation"
)

const (
	// DefaultEndpoint Generative Language API 端点
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel 默认模型
	DefaultModel = "gemini-2.5-flash"

	// 请求超时按批量行数伸缩的参数
	baseTimeout    = 20 * time.Second
	perLineTimeout = 5 * time.Second
	maxTimeout     = 60 * time.Second
)

// Config Gemini提供商配置
type Config struct {
	providers.BaseConfig

	// 模型名称
	Model string `json:"model"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	base := providers.DefaultConfig()
	base.APIEndpoint = DefaultEndpoint
	return Config{
		BaseConfig: base,
		Model:      DefaultModel,
	}
}

// Provider Gemini翻译提供商：每次请求从密钥池选一个密钥，
// 配额失败回报给池触发隔离轮换。
type Provider struct {
	config     Config
	pool       *translation.KeyPool
	httpClient *http.Client
	retrier    *retry.Retrier
	logger     *zap.Logger
}

// New 创建Gemini提供商
func New(config Config, pool *translation.KeyPool, logger *zap.Logger) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultEndpoint
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	retryCfg := retry.DefaultConfig()
	if config.MaxRetries > 0 {
		retryCfg.MaxRetries = config.MaxRetries
	}
	if config.RetryDelay > 0 {
		retryCfg.InitialDelay = config.RetryDelay
	}

	return &Provider{
		config:     config,
		pool:       pool,
		httpClient: &http.Client{Timeout: maxTimeout},
		retrier:    retry.New(retryCfg),
		logger:     logger,
	}
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "gemini"
}

// Translate 翻译单个文本
func (p *Provider) Translate(ctx context.Context, req *translation.ProviderRequest) (*translation.ProviderResponse, error) {
	prompt := translation.BuildSinglePrompt(req.Text, req.TargetLanguage)
	text, err := p.generate(ctx, prompt, 1)
	if err != nil {
		return nil, err
	}
	return &translation.ProviderResponse{Text: strings.TrimSpace(text), Model: p.config.Model}, nil
}

// TranslateBatch 批量翻译：编号提示词 + 按编号解析，无法恢复的行回退原文
func (p *Provider) TranslateBatch(ctx context.Context, req *translation.BatchRequest) (*translation.BatchResponse, error) {
	prompt := translation.BuildBatchPrompt(req.Lines, req.TargetLanguage)
	raw, err := p.generate(ctx, prompt, len(req.Lines))
	if err != nil {
		return nil, err
	}
	return &translation.BatchResponse{
		Lines: translation.ParseBatchResponse(raw, req.Lines),
		Model: p.config.Model,
	}, nil
}

// Probe 用指定密钥做一次极小的翻译请求，验证密钥可用性
func (p *Provider) Probe(ctx context.Context, key string) error {
	prompt := translation.BuildSinglePrompt("Hello", "Arabic")
	_, err := p.callAPI(ctx, prompt, key, baseTimeout)
	return err
}

// generate 从密钥池取密钥并调用API。配额失败回报给池。
func (p *Provider) generate(ctx context.Context, prompt string, batchLines int) (string, error) {
	selected, err := p.pool.Select()
	if err != nil {
		return "", providers.WrapError(providers.ErrCodeNoCredentials, "no gemini credentials available", err)
	}

	text, err := p.callAPI(ctx, prompt, selected.Key, timeoutFor(batchLines))
	if err != nil {
		p.pool.ReportFailure(selected.Name, err)
		p.logger.Warn("Gemini请求失败",
			zap.String("credential", selected.Name),
			zap.Error(err))
		return "", err
	}
	return text, nil
}

// generateContent 请求/响应体
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// callAPI 执行一次 generateContent 调用（网络瞬时错误由重试器处理）
func (p *Provider) callAPI(ctx context.Context, prompt, key string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", providers.WrapError(providers.ErrCodePermanent, "failed to encode request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(p.config.APIEndpoint, "/"), p.config.Model, key)

	resp, err := p.retrier.Do(ctx, func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range p.config.Headers {
			req.Header.Set(k, v)
		}
		return p.httpClient.Do(req)
	})
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		if ctx.Err() != nil {
			return "", providers.WrapError(providers.ErrCodeTimeout, "gemini request timed out", err)
		}
		return "", providers.WrapError(providers.ErrCodeNetwork, "gemini request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", providers.WrapError(providers.ErrCodeNetwork, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(resp.StatusCode, respBody)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", providers.WrapError(providers.ErrCodeServer, "failed to decode response", err)
	}
	if parsed.Error != nil {
		return "", classifyAPIError(parsed.Error.Code, parsed.Error.Status, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", providers.NewError(providers.ErrCodeEmptyResponse, "gemini returned no candidates")
	}

	var sb strings.Builder
	for _, pt := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(pt.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", providers.NewError(providers.ErrCodeEmptyResponse, "gemini returned empty text")
	}
	return sb.String(), nil
}

// classifyHTTPError HTTP状态码到错误分类的映射
func classifyHTTPError(statusCode int, body []byte) *providers.Error {
	if isQuotaSignal(statusCode, string(body)) {
		return providers.NewError(providers.ErrCodeQuotaExceeded,
			fmt.Sprintf("gemini quota exceeded (HTTP %d)", statusCode))
	}
	if statusCode >= 500 {
		return providers.NewError(providers.ErrCodeServer,
			fmt.Sprintf("gemini server error (HTTP %d)", statusCode))
	}
	return providers.NewError(providers.ErrCodePermanent,
		fmt.Sprintf("gemini request rejected (HTTP %d): %s", statusCode, truncate(string(body), 200)))
}

// classifyAPIError API层错误（HTTP 200但响应体带error字段）的分类
func classifyAPIError(code int, status, message string) *providers.Error {
	if isQuotaSignal(code, status+" "+message) {
		return providers.NewError(providers.ErrCodeQuotaExceeded, "gemini quota exceeded: "+message)
	}
	if code >= 500 {
		return providers.NewError(providers.ErrCodeServer, "gemini server error: "+message)
	}
	return providers.NewError(providers.ErrCodePermanent, "gemini api error: "+message)
}

// isQuotaSignal 配额信号检测：429、RESOURCE_EXHAUSTED、或含 quota 字样
func isQuotaSignal(code int, text string) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	lower := strings.ToLower(text)
	return strings.Contains(text, "RESOURCE_EXHAUSTED") || strings.Contains(lower, "quota")
}

// timeoutFor 根据批量行数伸缩请求超时
func timeoutFor(batchLines int) time.Duration {
	t := baseTimeout + time.Duration(batchLines)*perLineTimeout
	if t > maxTimeout {
		return maxTimeout
	}
	return t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
