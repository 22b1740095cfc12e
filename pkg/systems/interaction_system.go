package systems

import (
	"fmt"
	"log"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/input"
)

// ProximityTrigger 近距离交互触发器
//
// Tick 每帧按距离重新计算是否在范围内（无滞回，边界处可能来回切换）。
// OnKeyEvent 在范围内收到交互键的按下事件时调用回调；
// 同一个键的重复按下在松开之前被锁存器忽略。
type ProximityTrigger struct {
	key      string
	callback func()
	latch    *input.Latch
	inRange  bool
}

// NewProximityTrigger 创建触发器，key 为单个字母
func NewProximityTrigger(key string, callback func()) (*ProximityTrigger, error) {
	key = input.NormalizeKey(key)
	if key == "" {
		return nil, fmt.Errorf("proximity trigger needs an action key")
	}
	return &ProximityTrigger{
		key:      key,
		callback: callback,
		latch:    input.NewLatch(),
	}, nil
}

// Tick 重新计算是否在范围内：distance(tracked, anchor) < radius
func (p *ProximityTrigger) Tick(tracked, anchor math32.Vector3, radius float32) bool {
	p.inRange = tracked.Sub(anchor).Length() < radius
	return p.inRange
}

// InRange 返回最近一次 Tick 的结果
func (p *ProximityTrigger) InRange() bool {
	return p.inRange
}

// OnKeyEvent 处理按键事件，返回本次是否触发
func (p *ProximityTrigger) OnKeyEvent(ev input.KeyEvent, inRange bool) bool {
	if input.NormalizeKey(ev.Key) != p.key {
		return false
	}
	// 松开事件和范围外的按下都要经过锁存器，保持按键状态正确
	if !p.latch.Accept(ev) || !inRange {
		return false
	}
	if p.callback != nil {
		p.callback()
	}
	return true
}

// InteractionHandler 交互区域被触发时调用
type InteractionHandler func(zone ecs.EntityID, z *components.InteractionZoneComponent)

// InteractionSystem 计算玩家与各交互区域的距离，并把交互键事件分发给触发器
type InteractionSystem struct {
	em        *ecs.EntityManager
	sub       *input.Subscription
	triggers  map[ecs.EntityID]*ProximityTrigger
	onTrigger InteractionHandler
}

// NewInteractionSystem 创建交互系统并订阅按键事件
// 场景销毁时必须调用 Close 注销订阅
func NewInteractionSystem(em *ecs.EntityManager, dispatcher *input.Dispatcher, onTrigger InteractionHandler) *InteractionSystem {
	s := &InteractionSystem{
		em:        em,
		triggers:  make(map[ecs.EntityID]*ProximityTrigger),
		onTrigger: onTrigger,
	}
	if dispatcher != nil {
		s.sub = dispatcher.Subscribe(s.handleKey)
	}
	return s
}

// Close 注销按键订阅
func (s *InteractionSystem) Close() {
	s.sub.Close()
}

// Update 更新每个交互区域的 Armed 状态
// 玩家或锚点实体暂时不存在时该区域保持上一帧的状态
func (s *InteractionSystem) Update(deltaTime float64) {
	playerID, _, ok := ecs.First[*components.PlayerComponent](s.em)
	if !ok {
		return
	}
	playerTransform, ok := ecs.GetComponent[*components.TransformComponent](s.em, playerID)
	if !ok {
		return
	}

	for _, id := range ecs.GetEntitiesWith1[*components.InteractionZoneComponent](s.em) {
		zone, _ := ecs.GetComponent[*components.InteractionZoneComponent](s.em, id)
		trigger := s.triggerFor(id, zone)
		if trigger == nil {
			continue
		}
		anchor, ok := ecs.GetComponent[*components.TransformComponent](s.em, zone.Anchor)
		if !ok {
			continue
		}

		wasArmed := zone.Armed
		zone.Armed = trigger.Tick(playerTransform.Position, anchor.Position, zone.Radius)
		if zone.Armed != wasArmed {
			log.Printf("[InteractionSystem] Zone %d in range: %v", id, zone.Armed)
		}
	}
}

func (s *InteractionSystem) triggerFor(id ecs.EntityID, zone *components.InteractionZoneComponent) *ProximityTrigger {
	if t, seen := s.triggers[id]; seen {
		return t
	}
	var trigger *ProximityTrigger
	if !(zone.Radius > 0) {
		logDisabled("InteractionSystem", id, ErrInvalidRadius)
	} else {
		t, err := NewProximityTrigger(zone.Key, func() { s.fire(id) })
		if err != nil {
			logDisabled("InteractionSystem", id, err)
		} else {
			trigger = t
		}
	}
	s.triggers[id] = trigger
	return trigger
}

func (s *InteractionSystem) handleKey(ev input.KeyEvent) {
	for _, id := range ecs.GetEntitiesWith1[*components.InteractionZoneComponent](s.em) {
		zone, _ := ecs.GetComponent[*components.InteractionZoneComponent](s.em, id)
		if trigger := s.triggerFor(id, zone); trigger != nil {
			trigger.OnKeyEvent(ev, zone.Armed)
		}
	}
}

func (s *InteractionSystem) fire(id ecs.EntityID) {
	zone, ok := ecs.GetComponent[*components.InteractionZoneComponent](s.em, id)
	if !ok {
		return
	}
	zone.Fired++
	log.Printf("[InteractionSystem] Zone %d triggered (%q)", id, zone.Title)
	if s.onTrigger != nil {
		s.onTrigger(id, zone)
	}
}
