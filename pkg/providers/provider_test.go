package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Run("quota error", func(t *testing.T) {
		err := NewError(ErrCodeQuotaExceeded, "quota exceeded")

		assert.True(t, err.IsQuotaExceeded())
		assert.True(t, err.IsRetryable())
		assert.True(t, IsQuotaExceeded(err))
	})

	t.Run("transient errors retryable", func(t *testing.T) {
		for _, code := range []string{ErrCodeTimeout, ErrCodeNetwork, ErrCodeServer, ErrCodeEmptyResponse} {
			err := NewError(code, "transient")
			assert.True(t, err.IsRetryable(), code)
			assert.False(t, err.IsQuotaExceeded(), code)
		}
	})

	t.Run("permanent errors not retryable", func(t *testing.T) {
		for _, code := range []string{ErrCodePermanent, ErrCodeNoCredentials} {
			assert.False(t, NewError(code, "fatal").IsRetryable(), code)
		}
	})
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("underlying failure")
	err := WrapError(ErrCodeNetwork, "request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "request failed", err.Error())

	// 包装后仍可用 errors.As 提取分类
	wrapped := fmt.Errorf("outer: %w", err)
	var pe *Error
	assert.ErrorAs(t, wrapped, &pe)
	assert.Equal(t, ErrCodeNetwork, pe.Code)
	assert.True(t, IsRetryable(wrapped))
}

func TestPackageHelpers(t *testing.T) {
	assert.False(t, IsQuotaExceeded(errors.New("plain error")))
	assert.False(t, IsQuotaExceeded(nil))
	assert.False(t, IsRetryable(errors.New("plain error")))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
}
