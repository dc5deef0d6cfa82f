package translation

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/providers"
)

// DefaultCooldown 配额隔离的默认冷却时间
const DefaultCooldown = 5 * time.Minute

// credential 池内凭据（内部状态，全部由池锁保护）
type credential struct {
	name         string
	key          string
	active       bool
	usageCount   int
	lastUsed     time.Time
	reactivateAt time.Time
	timer        *time.Timer
}

// SelectedKey 一次选择的结果：调用方用它发起请求并回报失败
type SelectedKey struct {
	Name string
	Key  string
}

// CredentialStatus 对外暴露的凭据状态（密钥已脱敏）
type CredentialStatus struct {
	Name       string    `json:"name"`
	MaskedKey  string    `json:"masked_key"`
	Active     bool      `json:"active"`
	UsageCount int       `json:"usage_count"`
	LastUsed   time.Time `json:"last_used,omitempty"`
}

// PoolStatus 池的整体状态快照
type PoolStatus struct {
	Total       int                `json:"total"`
	Active      int                `json:"active"`
	Credentials []CredentialStatus `json:"credentials"`
}

// KeyPool API密钥池：随机选择活跃凭据，配额失败后隔离并定时恢复。
// 所有方法并发安全。
type KeyPool struct {
	mu       sync.Mutex
	creds    []*credential
	cooldown time.Duration
	closed   bool
	logger   *zap.Logger
}

// NewKeyPool 创建密钥池。keys 按顺序命名为 Primary、Secondary_2、Secondary_3…
func NewKeyPool(keys []string, cooldown time.Duration, logger *zap.Logger) *KeyPool {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &KeyPool{
		cooldown: cooldown,
		logger:   logger,
	}
	for i, key := range keys {
		if key == "" {
			continue
		}
		name := "Primary"
		if i > 0 {
			name = "Secondary_" + strconv.Itoa(i+1)
		}
		p.creds = append(p.creds, &credential{name: name, key: key, active: true})
	}

	logger.Info("密钥池初始化完成",
		zap.Int("total", len(p.creds)),
		zap.Duration("cooldown", cooldown))
	return p
}

// Add 添加凭据。同名凭据已存在时不做任何修改并返回 false。
func (p *KeyPool) Add(name, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	for _, c := range p.creds {
		if c.name == name {
			return false
		}
	}
	p.creds = append(p.creds, &credential{name: name, key: key, active: true})
	p.logger.Info("添加API密钥", zap.String("name", name))
	return true
}

// Remove 按名称移除凭据。不存在时返回 false。
func (p *KeyPool) Remove(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, c := range p.creds {
		if c.name == name {
			if c.timer != nil {
				c.timer.Stop()
			}
			p.creds = append(p.creds[:i], p.creds[i+1:]...)
			p.logger.Info("移除API密钥", zap.String("name", name))
			return true
		}
	}
	return false
}

// Select 随机选择一个活跃凭据并累计用量。
// 所有凭据都被隔离时会先整体复活（活性保证：只要池非空就能选出密钥）。
func (p *KeyPool) Select() (SelectedKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return SelectedKey{}, ErrPoolClosed
	}
	if len(p.creds) == 0 {
		return SelectedKey{}, ErrNoActiveCredentials
	}

	now := time.Now()
	p.sweepLocked(now)

	active := p.activeLocked()
	if len(active) == 0 {
		// 全部被隔离：立即复活所有凭据，避免在冷却窗口内完全不可用
		p.logger.Warn("所有密钥均被隔离，立即全部复活", zap.Int("total", len(p.creds)))
		for _, c := range p.creds {
			p.reactivateLocked(c)
		}
		active = p.activeLocked()
	}

	c := active[rand.Intn(len(active))]
	c.usageCount++
	c.lastUsed = now
	return SelectedKey{Name: c.name, Key: c.key}, nil
}

// ReportFailure 回报一次请求失败。仅配额类错误触发隔离；
// 瞬时错误（超时、网络）不降低凭据可用性。
func (p *KeyPool) ReportFailure(name string, reason error) {
	if !providers.IsQuotaExceeded(reason) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.creds {
		if c.name != name || !c.active {
			continue
		}
		c.active = false
		c.reactivateAt = time.Now().Add(p.cooldown)
		if c.timer != nil {
			c.timer.Stop()
		}
		c.timer = time.AfterFunc(p.cooldown, func() { p.reactivate(name) })
		p.logger.Warn("密钥配额耗尽，进入隔离",
			zap.String("name", name),
			zap.Duration("cooldown", p.cooldown))
		return
	}
}

// Secret 按名称查询凭据明文（仅供内部探测使用）
func (p *KeyPool) Secret(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.creds {
		if c.name == name {
			return c.key, true
		}
	}
	return "", false
}

// Len 返回池中凭据总数
func (p *KeyPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.creds)
}

// ActiveCount 返回当前活跃凭据数（会先执行到期复活扫描）
func (p *KeyPool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked(time.Now())
	return len(p.activeLocked())
}

// Status 返回池状态快照，密钥经过脱敏
func (p *KeyPool) Status() PoolStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sweepLocked(time.Now())

	st := PoolStatus{Total: len(p.creds)}
	for _, c := range p.creds {
		if c.active {
			st.Active++
		}
		st.Credentials = append(st.Credentials, CredentialStatus{
			Name:       c.name,
			MaskedKey:  MaskKey(c.key),
			Active:     c.active,
			UsageCount: c.usageCount,
			LastUsed:   c.lastUsed,
		})
	}
	return st
}

// Close 停止所有后台定时器。关闭后 Select 返回 ErrPoolClosed。
func (p *KeyPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for _, c := range p.creds {
		if c.timer != nil {
			c.timer.Stop()
			c.timer = nil
		}
	}
}

// reactivate 定时器回调：按名称复活凭据
func (p *KeyPool) reactivate(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	for _, c := range p.creds {
		if c.name == name && !c.active {
			p.reactivateLocked(c)
			p.logger.Info("密钥冷却结束，恢复可用", zap.String("name", name))
		}
	}
}

// sweepLocked 扫描到期的隔离凭据并复活。
// 定时器之外的兜底路径：即使 AfterFunc 丢失，选择时也会恢复到期凭据。
func (p *KeyPool) sweepLocked(now time.Time) {
	for _, c := range p.creds {
		if !c.active && !c.reactivateAt.IsZero() && now.After(c.reactivateAt) {
			p.reactivateLocked(c)
		}
	}
}

func (p *KeyPool) reactivateLocked(c *credential) {
	c.active = true
	c.reactivateAt = time.Time{}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (p *KeyPool) activeLocked() []*credential {
	active := make([]*credential, 0, len(p.creds))
	for _, c := range p.creds {
		if c.active {
			active = append(active, c)
		}
	}
	return active
}

// MaskKey 密钥脱敏：长密钥保留首10位和末5位，短密钥完全隐藏
func MaskKey(key string) string {
	if len(key) > 15 {
		return key[:10] + "..." + key[len(key)-5:]
	}
	return "***"
}
