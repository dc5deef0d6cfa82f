package translation

import "context"

// DefaultGateSize 单提供商默认并发上限
const DefaultGateSize = 8

// AdmissionGate 准入门闸：限制对单个提供商的在途请求数。
// 固定容量的信号量，Acquire 支持取消。
type AdmissionGate struct {
	slots chan struct{}
}

// NewAdmissionGate 创建准入门闸。size <= 0 时使用默认容量。
func NewAdmissionGate(size int) *AdmissionGate {
	if size <= 0 {
		size = DefaultGateSize
	}
	return &AdmissionGate{slots: make(chan struct{}, size)}
}

// Acquire 占用一个槽位，门闸已满时阻塞直到有空位或 ctx 取消
func (g *AdmissionGate) Acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release 释放槽位。必须与成功的 Acquire 一一配对。
func (g *AdmissionGate) Release() {
	<-g.slots
}

// InFlight 当前在途请求数
func (g *AdmissionGate) InFlight() int {
	return len(g.slots)
}
