package systems

import (
	"log"
	"math"

	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/input"
	"github.com/decker502/roboworld/pkg/utils"
)

// 面板头部布局（像素）
const (
	OverlayHeaderHeight  = 72.0
	OverlayPadding       = 20.0
	OverlayButtonWidth   = 80.0
	OverlayButtonHeight  = 32.0
	overlayDefaultCloser = "escape"
)

// Rect 屏幕矩形
type Rect struct {
	X, Y, W, H float64
}

// Contains 点是否在矩形内
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// OverlayLayout 计算面板和关闭按钮在屏幕上的位置
// 面板宽度为 min(屏宽×WidthRatio, MaxWidth)，按 Progress 从右侧滑入
func OverlayLayout(screenW, screenH float64, o *components.OverlayComponent) (panel, closeButton Rect) {
	w := screenW * o.WidthRatio
	if o.MaxWidth > 0 {
		w = math.Min(w, o.MaxWidth)
	}
	panel = Rect{X: screenW - w*o.Progress, Y: 0, W: w, H: screenH}
	closeButton = Rect{
		X: panel.X + panel.W - OverlayPadding - OverlayButtonWidth,
		Y: (OverlayHeaderHeight - OverlayButtonHeight) / 2,
		W: OverlayButtonWidth,
		H: OverlayButtonHeight,
	}
	return panel, closeButton
}

// PointerFunc 返回本帧是否有点击以及点击位置
type PointerFunc func() (clicked bool, x, y int)

// OverlaySystem 管理面板的打开、关闭和滑动动画
//
// 关闭键（默认 Escape）或点击 Close 按钮关闭面板。
type OverlaySystem struct {
	em            *ecs.EntityManager
	sub           *input.Subscription
	screenW       float64
	screenH       float64
	pointer       PointerFunc
	OnStateChange func(open bool)
}

// NewOverlaySystem 创建面板系统并订阅按键事件
func NewOverlaySystem(em *ecs.EntityManager, dispatcher *input.Dispatcher, screenW, screenH float64) *OverlaySystem {
	s := &OverlaySystem{
		em:      em,
		screenW: screenW,
		screenH: screenH,
		pointer: utils.IsJustTouchedOrClicked,
	}
	if dispatcher != nil {
		s.sub = dispatcher.Subscribe(s.handleKey)
	}
	return s
}

// SetPointerFunc 替换点击输入来源，nil 表示不处理点击
func (s *OverlaySystem) SetPointerFunc(fn PointerFunc) {
	s.pointer = fn
}

// Close 注销按键订阅
func (s *OverlaySystem) Close() {
	s.sub.Close()
}

// Open 打开面板
func (s *OverlaySystem) Open() {
	s.setOpen(true)
}

// Dismiss 关闭面板
func (s *OverlaySystem) Dismiss() {
	s.setOpen(false)
}

// IsOpen 面板是否处于打开状态
func (s *OverlaySystem) IsOpen() bool {
	_, o, ok := ecs.First[*components.OverlayComponent](s.em)
	return ok && o.Open
}

func (s *OverlaySystem) setOpen(open bool) {
	_, o, ok := ecs.First[*components.OverlayComponent](s.em)
	if !ok || o.Open == open {
		return
	}
	o.Open = open
	log.Printf("[OverlaySystem] Overlay %q open=%v", o.Title, open)
	if s.OnStateChange != nil {
		s.OnStateChange(open)
	}
}

func (s *OverlaySystem) handleKey(ev input.KeyEvent) {
	if !ev.Down {
		return
	}
	_, o, ok := ecs.First[*components.OverlayComponent](s.em)
	if !ok || !o.Open {
		return
	}
	closer := o.CloseKey
	if closer == "" {
		closer = overlayDefaultCloser
	}
	if ev.Key == input.NormalizeKey(closer) {
		s.Dismiss()
	}
}

// Update 推进滑动动画并处理 Close 按钮点击
func (s *OverlaySystem) Update(deltaTime float64) {
	_, o, ok := ecs.First[*components.OverlayComponent](s.em)
	if !ok {
		return
	}

	if o.Open && o.Progress > 0 && s.pointer != nil {
		if clicked, x, y := s.pointer(); clicked {
			_, btn := OverlayLayout(s.screenW, s.screenH, o)
			if btn.Contains(float64(x), float64(y)) {
				s.Dismiss()
			}
		}
	}

	if !(deltaTime > 0) {
		return
	}
	target := 0.0
	if o.Open {
		target = 1
	}
	if o.SlideSeconds <= 0 {
		o.Linear = target
	} else {
		step := deltaTime / o.SlideSeconds
		if o.Linear < target {
			o.Linear = math.Min(target, o.Linear+step)
		} else {
			o.Linear = math.Max(target, o.Linear-step)
		}
	}
	o.Progress = utils.EaseOutCubic(o.Linear)
}
