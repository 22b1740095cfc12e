package input

// Latch 单次触发锁存器
//
// 按下事件只有在该键处于"已松开"状态时才被接受；接受后锁定，
// 直到收到同一键的松开事件。系统的按键重复（持续按住时不断产生按下事件）
// 因此只会触发一次。
type Latch struct {
	held map[string]bool
}

// NewLatch 创建锁存器
func NewLatch() *Latch {
	return &Latch{held: make(map[string]bool)}
}

// Accept 处理一个事件，返回该事件是否为一次新的按下
func (l *Latch) Accept(ev KeyEvent) bool {
	key := NormalizeKey(ev.Key)
	if !ev.Down {
		delete(l.held, key)
		return false
	}
	if l.held[key] {
		return false
	}
	l.held[key] = true
	return true
}

// Reset 清除所有锁定状态
func (l *Latch) Reset() {
	clear(l.held)
}
