package providers

import (
	"context"
	"errors"
	"time"
)

// BaseConfig 提供商基础配置
type BaseConfig struct {
	// API配置
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 超时和重试
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
		Headers:    make(map[string]string),
	}
}

// 错误代码常量
const (
	ErrCodeQuotaExceeded = "quota_exceeded"
	ErrCodeTimeout       = "timeout"
	ErrCodeNetwork       = "network_error"
	ErrCodeServer        = "server_error"
	ErrCodeEmptyResponse = "empty_response"
	ErrCodeNoCredentials = "no_credentials"
	ErrCodePermanent     = "permanent_error"
)

// Error 提供商错误
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap 返回原因错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable 判断错误是否可在同一提供商内重试
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case ErrCodeQuotaExceeded, ErrCodeTimeout, ErrCodeNetwork, ErrCodeServer, ErrCodeEmptyResponse:
		return true
	default:
		return false
	}
}

// IsQuotaExceeded 判断是否为配额错误
func (e *Error) IsQuotaExceeded() bool {
	return e.Code == ErrCodeQuotaExceeded
}

// NewError 创建提供商错误
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError 包装底层错误
func WrapError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsQuotaExceeded 判断任意错误是否为配额错误
func IsQuotaExceeded(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.IsQuotaExceeded()
	}
	return false
}

// IsRetryable 判断任意错误是否可重试
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.IsRetryable()
	}
	return false
}
