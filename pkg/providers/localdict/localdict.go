package localdict

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/translation"
)

// 单词查找时剥离的尾部标点
const trailingPunct = `.,!?;:"')]}`

// overlayFile 覆盖词典文件的JSON结构
type overlayFile struct {
	Words   map[string]string `json:"words"`
	Phrases map[string]string `json:"phrases"`
}

// Provider 本地词典提供商：降级链的终端层级，永不返回错误。
// 内置英阿词典，可用JSON覆盖文件扩展，支持运行时添加词条。
type Provider struct {
	mu      sync.RWMutex
	words   map[string]string
	phrases map[string]string

	// 短语按长度降序排列，长短语优先匹配
	sortedPhrases []string

	logger *zap.Logger
}

// New 创建本地词典提供商（内置词典的副本，可安全修改）
func New(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Provider{
		words:   make(map[string]string, len(builtinWords)),
		phrases: make(map[string]string, len(builtinPhrases)),
		logger:  logger,
	}
	for k, v := range builtinWords {
		p.words[k] = v
	}
	for k, v := range builtinPhrases {
		p.phrases[k] = v
	}
	p.rebuildPhraseIndexLocked()
	return p
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "local_dictionary"
}

// Translate 词典翻译单个文本。无词条命中时原文透传，永不失败。
func (p *Provider) Translate(_ context.Context, req *translation.ProviderRequest) (*translation.ProviderResponse, error) {
	return &translation.ProviderResponse{
		Text:  p.translateText(req.Text),
		Model: "builtin-dictionary",
	}, nil
}

// TranslateBatch 逐行词典翻译，输出与输入等长
func (p *Provider) TranslateBatch(_ context.Context, req *translation.BatchRequest) (*translation.BatchResponse, error) {
	out := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		out[i] = p.translateText(line)
	}
	return &translation.BatchResponse{Lines: out, Model: "builtin-dictionary"}, nil
}

// translateText 短语优先替换，再逐词替换。标点保留在译词之后。
func (p *Provider) translateText(text string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := text
	for _, phrase := range p.sortedPhrases {
		result = replaceFold(result, phrase, p.phrases[phrase])
	}

	words := strings.Fields(result)
	for i, word := range words {
		trimmed := strings.TrimRight(word, trailingPunct)
		suffix := word[len(trimmed):]
		clean := strings.ToLower(strings.TrimLeft(trimmed, `"'([{`))
		prefix := trimmed[:len(trimmed)-len(clean)]

		if ar, ok := p.words[clean]; ok {
			words[i] = prefix + ar + suffix
		}
	}
	return strings.Join(words, " ")
}

// LoadOverlay 加载JSON覆盖词典（words/phrases 两个键），合并进内置词典
func (p *Provider) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dictionary overlay: %w", err)
	}

	var overlay overlayFile
	if err := json.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse dictionary overlay: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for k, v := range overlay.Words {
		p.words[strings.ToLower(k)] = v
	}
	for k, v := range overlay.Phrases {
		p.phrases[strings.ToLower(k)] = v
	}
	p.rebuildPhraseIndexLocked()

	p.logger.Info("已加载覆盖词典",
		zap.String("path", path),
		zap.Int("words", len(overlay.Words)),
		zap.Int("phrases", len(overlay.Phrases)))
	return nil
}

// AddTranslation 运行时添加词条。多词条目自动归入短语表。
func (p *Provider) AddTranslation(original, translated string) {
	key := strings.ToLower(strings.TrimSpace(original))
	if key == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if strings.Contains(key, " ") {
		p.phrases[key] = translated
		p.rebuildPhraseIndexLocked()
	} else {
		p.words[key] = translated
	}
}

// Save 将当前词典（含运行时添加的词条）写入JSON文件，原子替换
func (p *Provider) Save(path string) error {
	p.mu.RLock()
	out := overlayFile{
		Words:   make(map[string]string, len(p.words)),
		Phrases: make(map[string]string, len(p.phrases)),
	}
	for k, v := range p.words {
		out.Words[k] = v
	}
	for k, v := range p.phrases {
		out.Phrases[k] = v
	}
	p.mu.RUnlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dictionary: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dictionary dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	return os.Rename(tmp, path)
}

// Size 返回词条数量 (单词数, 短语数)
func (p *Provider) Size() (int, int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.words), len(p.phrases)
}

// rebuildPhraseIndexLocked 重建短语匹配顺序：长短语优先
func (p *Provider) rebuildPhraseIndexLocked() {
	p.sortedPhrases = make([]string, 0, len(p.phrases))
	for k := range p.phrases {
		p.sortedPhrases = append(p.sortedPhrases, k)
	}
	sort.Slice(p.sortedPhrases, func(i, j int) bool {
		if len(p.sortedPhrases[i]) != len(p.sortedPhrases[j]) {
			return len(p.sortedPhrases[i]) > len(p.sortedPhrases[j])
		}
		return p.sortedPhrases[i] < p.sortedPhrases[j]
	})
}

// replaceFold 大小写不敏感的子串替换
func replaceFold(text, old, repl string) string {
	if old == "" {
		return text
	}
	lowerText := strings.ToLower(text)
	lowerOld := strings.ToLower(old)

	var sb strings.Builder
	for {
		i := strings.Index(lowerText, lowerOld)
		if i < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		sb.WriteString(text[:i])
		sb.WriteString(repl)
		text = text[i+len(old):]
		lowerText = lowerText[i+len(lowerOld):]
	}
}
