// Package input 把 Ebitengine 的按键状态转换为显式的按键事件队列
//
// 帧驱动在每个 tick 开头调用 Dispatcher.Poll()，把本帧刚按下/刚松开的按键
// 转换为 KeyEvent 并同步投递给订阅者。组件通过 Subscribe 获得一个 Subscription，
// 在销毁时调用 Close 注销，不存在全局监听器状态。
package input

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyEvent 一次按键状态变化
type KeyEvent struct {
	Key  string // 标准化的键名，如 "w"、"r"、"escape"、"f11"
	Down bool   // true=按下, false=松开
}

// KeyDown 构造按下事件
func KeyDown(key string) KeyEvent {
	return KeyEvent{Key: NormalizeKey(key), Down: true}
}

// KeyUp 构造松开事件
func KeyUp(key string) KeyEvent {
	return KeyEvent{Key: NormalizeKey(key), Down: false}
}

// NormalizeKey 标准化键名：去除首尾空白并转为小写
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// KeyName 返回 Ebitengine 按键的标准化名称
// 例如 ebiten.KeyW -> "w"，ebiten.KeyEscape -> "escape"
func KeyName(k ebiten.Key) string {
	return NormalizeKey(k.String())
}

// Handler 按键事件处理函数
type Handler func(KeyEvent)

type subscriber struct {
	id      int
	handler Handler
}

// Dispatcher 按键事件分发器
//
// 所有方法都应在帧循环所在的 goroutine 中调用。
// 事件按订阅顺序依次投递；处理函数中可以安全地订阅或注销。
type Dispatcher struct {
	subscribers []subscriber
	nextID      int
	held        map[string]bool

	// 复用的按键缓冲，避免每帧分配
	pressedBuf  []ebiten.Key
	releasedBuf []ebiten.Key
}

// NewDispatcher 创建按键事件分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		held: make(map[string]bool),
	}
}

// Subscribe 注册事件处理函数
func (d *Dispatcher) Subscribe(handler Handler) *Subscription {
	d.nextID++
	d.subscribers = append(d.subscribers, subscriber{id: d.nextID, handler: handler})
	return &Subscription{dispatcher: d, id: d.nextID}
}

// SubscriberCount 返回当前订阅者数量
func (d *Dispatcher) SubscriberCount() int {
	return len(d.subscribers)
}

// Publish 同步投递一个事件
func (d *Dispatcher) Publish(ev KeyEvent) {
	ev.Key = NormalizeKey(ev.Key)
	if ev.Down {
		d.held[ev.Key] = true
	} else {
		delete(d.held, ev.Key)
	}

	// 拷贝一份，处理函数中注销自己不会打乱遍历
	subs := append([]subscriber(nil), d.subscribers...)
	for _, s := range subs {
		if !d.isSubscribed(s.id) {
			continue
		}
		s.handler(ev)
	}
}

// IsHeld 返回按键当前是否处于按下状态（根据已投递的事件）
func (d *Dispatcher) IsHeld(key string) bool {
	return d.held[NormalizeKey(key)]
}

// Poll 读取本帧 Ebitengine 的按键变化并投递
// 先投递松开事件，再投递按下事件
func (d *Dispatcher) Poll() {
	d.releasedBuf = inpututil.AppendJustReleasedKeys(d.releasedBuf[:0])
	for _, k := range d.releasedBuf {
		d.Publish(KeyEvent{Key: KeyName(k), Down: false})
	}
	d.pressedBuf = inpututil.AppendJustPressedKeys(d.pressedBuf[:0])
	for _, k := range d.pressedBuf {
		d.Publish(KeyEvent{Key: KeyName(k), Down: true})
	}
}

// Close 注销所有订阅并清空按键状态
func (d *Dispatcher) Close() {
	d.subscribers = nil
	d.held = make(map[string]bool)
}

func (d *Dispatcher) isSubscribed(id int) bool {
	for _, s := range d.subscribers {
		if s.id == id {
			return true
		}
	}
	return false
}

func (d *Dispatcher) remove(id int) bool {
	for i, s := range d.subscribers {
		if s.id == id {
			d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// Subscription 一个已注册的处理函数
type Subscription struct {
	dispatcher *Dispatcher
	id         int
}

// Close 注销处理函数，可重复调用
func (s *Subscription) Close() {
	if s == nil || s.dispatcher == nil {
		return
	}
	s.dispatcher.remove(s.id)
	s.dispatcher = nil
}

// Active 返回订阅是否仍然有效
func (s *Subscription) Active() bool {
	return s != nil && s.dispatcher != nil && s.dispatcher.isSubscribed(s.id)
}
