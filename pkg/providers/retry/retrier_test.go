package retry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxRetries:    2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetrierDo(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		var calls int32
		resp, err := New(fastConfig()).Do(context.Background(), func() (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return http.Get(srv.URL)
		})

		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("retries server errors until success", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		resp, err := New(fastConfig()).Do(context.Background(), func() (*http.Response, error) {
			return http.Get(srv.URL)
		})

		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	})

	t.Run("429 is not retried here", func(t *testing.T) {
		// 配额错误交给上层做密钥轮换
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		resp, _ := New(fastConfig()).Do(context.Background(), func() (*http.Response, error) {
			return http.Get(srv.URL)
		})

		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("client errors not retried", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		resp, _ := New(fastConfig()).Do(context.Background(), func() (*http.Response, error) {
			return http.Get(srv.URL)
		})

		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(fastConfig()).Do(ctx, func() (*http.Response, error) {
			return nil, errors.New("should not be called")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		resp *http.Response
		want ErrorType
	}{
		{"network error", syscall.ECONNREFUSED, nil, ErrorTypeNetwork},
		{"permanent error", errors.New("parse failure"), nil, ErrorTypePermanent},
		{"server 500", nil, &http.Response{StatusCode: 500}, ErrorTypeServerError},
		{"rate limit 429", nil, &http.Response{StatusCode: 429}, ErrorTypeRetryableHTTP},
		{"client 404", nil, &http.Response{StatusCode: 404}, ErrorTypeClientError},
		{"success", nil, &http.Response{StatusCode: 200}, ErrorTypeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err, tt.resp))
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	assert.True(t, IsNetworkError(syscall.ECONNRESET))
	assert.True(t, IsNetworkError(errors.New("dial tcp: i/o timeout")))
	assert.False(t, IsNetworkError(errors.New("invalid request body")))
	assert.False(t, IsNetworkError(nil))
}
