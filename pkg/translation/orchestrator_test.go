package translation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/providers"
)

// stubProvider 测试用提供商桩
type stubProvider struct {
	name  string
	fn    func(lines []string) ([]string, error)
	calls int32
}

func (s *stubProvider) GetName() string { return s.name }

func (s *stubProvider) Translate(ctx context.Context, req *ProviderRequest) (*ProviderResponse, error) {
	out, err := s.fn([]string{req.Text})
	if err != nil {
		return nil, err
	}
	return &ProviderResponse{Text: out[0]}, nil
}

func (s *stubProvider) TranslateBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, error) {
	atomic.AddInt32(&s.calls, 1)
	out, err := s.fn(req.Lines)
	if err != nil {
		return nil, err
	}
	return &BatchResponse{Lines: out}, nil
}

// echoStub 给每行加前缀的桩，模拟成功翻译
func echoStub(name, prefix string) *stubProvider {
	return &stubProvider{
		name: name,
		fn: func(lines []string) ([]string, error) {
			out := make([]string, len(lines))
			for i, l := range lines {
				out[i] = prefix + l
			}
			return out, nil
		},
	}
}

// failStub 总是失败的桩
func failStub(name string, err error) *stubProvider {
	return &stubProvider{
		name: name,
		fn:   func([]string) ([]string, error) { return nil, err },
	}
}

func newTestTranslator(t *testing.T, tiers []Tier, opts ...TranslatorOption) *DocumentTranslator {
	t.Helper()
	cfg := DefaultTranslatorConfig()
	cfg.RetryDelay = time.Millisecond
	tr, err := NewDocumentTranslator(cfg, tiers, zap.NewNop(), opts...)
	require.NoError(t, err)
	return tr
}

func TestTranslateLinesInvariants(t *testing.T) {
	t.Run("order and length preserved", func(t *testing.T) {
		tr := newTestTranslator(t, []Tier{{Provider: echoStub("gemini", "AR:")}})

		lines := []string{"First sentence.", "Second part", "third part!", "One more."}
		pairs, err := tr.TranslateLines(context.Background(), lines, nil)

		require.NoError(t, err)
		require.Len(t, pairs, len(lines))
		for i, p := range pairs {
			assert.Equal(t, lines[i], p.Original)
			assert.Equal(t, "AR:"+lines[i], p.Translated)
		}
	})

	t.Run("empty lines map to empty translation", func(t *testing.T) {
		tr := newTestTranslator(t, []Tier{{Provider: echoStub("gemini", "AR:")}})

		pairs, err := tr.TranslateLines(context.Background(), []string{"Text.", "", "More text."}, nil)

		require.NoError(t, err)
		require.Len(t, pairs, 3)
		assert.Equal(t, "", pairs[1].Original)
		assert.Equal(t, "", pairs[1].Translated)
	})

	t.Run("no input returns error", func(t *testing.T) {
		tr := newTestTranslator(t, []Tier{{Provider: echoStub("gemini", "AR:")}})

		_, err := tr.TranslateLines(context.Background(), nil, nil)
		assert.ErrorIs(t, err, ErrNoLines)
	})

	t.Run("math expressions survive translation", func(t *testing.T) {
		// 桩会改写整行，但占位符必须原样保留并被还原
		tr := newTestTranslator(t, []Tier{{Provider: echoStub("gemini", "AR: ")}})

		pairs, err := tr.TranslateLines(context.Background(),
			[]string{"The formula $E = mc^2$ is famous."}, nil)

		require.NoError(t, err)
		assert.Contains(t, pairs[0].Translated, "$E = mc^2$")
		assert.NotContains(t, pairs[0].Translated, "@@MATH_")
	})
}

func TestTranslateLinesFallbackChain(t *testing.T) {
	quota := providers.NewError(providers.ErrCodeQuotaExceeded, "quota exceeded")
	transient := providers.NewError(providers.ErrCodeServer, "server error")

	t.Run("falls through to terminal tier", func(t *testing.T) {
		primary := failStub("gemini", quota)
		secondary := failStub("groq", transient)
		local := echoStub("local_dictionary", "LD:")

		var report *JobReport
		tr := newTestTranslator(t,
			[]Tier{
				{Provider: primary},
				{Provider: secondary},
				{Provider: local, Terminal: true},
			},
			WithJobObserver(func(r *JobReport) { report = r }),
		)

		pairs, err := tr.TranslateLines(context.Background(), []string{"Hello there."}, nil)

		require.NoError(t, err)
		assert.Equal(t, "LD:Hello there.", pairs[0].Translated)

		// 每个AI层级重试3次后降级
		assert.Equal(t, int32(3), atomic.LoadInt32(&primary.calls))
		assert.Equal(t, int32(3), atomic.LoadInt32(&secondary.calls))
		assert.Equal(t, int32(1), atomic.LoadInt32(&local.calls))

		require.NotNil(t, report)
		assert.Equal(t, 1, report.TierCounts["local_dictionary"])
		assert.Equal(t, 3, report.QuotaFailures)
	})

	t.Run("permanent error skips tier retries", func(t *testing.T) {
		primary := failStub("gemini", providers.NewError(providers.ErrCodePermanent, "bad request"))
		local := echoStub("local_dictionary", "LD:")

		tr := newTestTranslator(t, []Tier{
			{Provider: primary},
			{Provider: local, Terminal: true},
		})

		_, err := tr.TranslateLines(context.Background(), []string{"Hello."}, nil)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&primary.calls))
	})

	t.Run("quota retries immediately within tier", func(t *testing.T) {
		var n int32
		primary := &stubProvider{
			name: "gemini",
			fn: func(lines []string) ([]string, error) {
				if atomic.AddInt32(&n, 1) == 1 {
					return nil, quota
				}
				return []string{"ok"}, nil
			},
		}

		tr := newTestTranslator(t, []Tier{{Provider: primary}})
		pairs, err := tr.TranslateLines(context.Background(), []string{"Hello."}, nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", pairs[0].Translated)
	})

	t.Run("length mismatch degrades to next tier", func(t *testing.T) {
		broken := &stubProvider{
			name: "gemini",
			fn:   func(lines []string) ([]string, error) { return []string{"only one"}, nil },
		}
		local := echoStub("local_dictionary", "LD:")

		tr := newTestTranslator(t, []Tier{
			{Provider: broken},
			{Provider: local, Terminal: true},
		})

		pairs, err := tr.TranslateLines(context.Background(), []string{"line a", "line b."}, nil)
		require.NoError(t, err)
		assert.Equal(t, "LD:line a", pairs[0].Translated)
		assert.Equal(t, "LD:line b.", pairs[1].Translated)
	})

	t.Run("all tiers failing passes originals through", func(t *testing.T) {
		tr := newTestTranslator(t, []Tier{{Provider: failStub("gemini", transient)}})

		pairs, err := tr.TranslateLines(context.Background(), []string{"Unchanged."}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Unchanged.", pairs[0].Translated)
	})
}

func TestTranslateLinesProgress(t *testing.T) {
	tr := newTestTranslator(t, []Tier{{Provider: echoStub("gemini", "AR:")}})

	var currents []int
	var total int
	progress := func(cur, tot int, stage string) {
		currents = append(currents, cur)
		total = tot
	}

	lines := []string{"one.", "", "two.", "three."}
	_, err := tr.TranslateLines(context.Background(), lines, progress)

	require.NoError(t, err)
	assert.Equal(t, len(lines), total)
	require.NotEmpty(t, currents)
	// 进度单调递增，最后一次到达总行数
	for i := 1; i < len(currents); i++ {
		assert.Greater(t, currents[i], currents[i-1])
	}
	assert.Equal(t, len(lines), currents[len(currents)-1])
}

func TestTranslateLinesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	slow := &stubProvider{
		name: "gemini",
		fn: func(lines []string) ([]string, error) {
			cancel() // 第一个单元处理后取消
			return lines, nil
		},
	}
	tr := newTestTranslator(t, []Tier{{Provider: slow}})

	pairs, err := tr.TranslateLines(ctx, []string{"first.", "second.", "third."}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	// 已完成的部分结果仍然返回
	assert.Less(t, len(pairs), 3)
	assert.GreaterOrEqual(t, len(pairs), 1)
}

func TestTranslateLinesObserver(t *testing.T) {
	var report *JobReport
	tr := newTestTranslator(t,
		[]Tier{{Provider: echoStub("gemini", "AR:")}},
		WithJobObserver(func(r *JobReport) { report = r }),
	)

	_, err := tr.TranslateLines(context.Background(), []string{"a.", "", "b."}, nil)
	require.NoError(t, err)

	require.NotNil(t, report)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 3, report.Lines)
	assert.Equal(t, 3, report.Chunks)
	assert.Equal(t, 2, report.TierCounts["gemini"])
}
