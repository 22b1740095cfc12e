package systems

import (
	"fmt"
	"time"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
)

// TrailBuffer 玩家轨迹缓冲
//
// 按移动距离采样，按时间淡出。数据保存在 TrailComponent 中。
// 不变式：点数 ≤ MaxPoints；每次 Tick 后所有点满足 now-CreatedAt < FadeTime。
type TrailBuffer struct {
	trail *components.TrailComponent
}

// NewTrailBuffer 校验参数并包装轨迹组件
func NewTrailBuffer(trail *components.TrailComponent) (*TrailBuffer, error) {
	if trail == nil {
		return nil, fmt.Errorf("%w: nil trail component", ErrInvalidTrail)
	}
	if trail.MaxPoints <= 0 {
		return nil, fmt.Errorf("%w: maxPoints must be > 0, got %d", ErrInvalidTrail, trail.MaxPoints)
	}
	if !(trail.Spacing > 0) {
		return nil, fmt.Errorf("%w: spacing must be > 0, got %v", ErrInvalidTrail, trail.Spacing)
	}
	if trail.FadeTime <= 0 {
		return nil, fmt.Errorf("%w: fade time must be > 0, got %v", ErrInvalidTrail, trail.FadeTime)
	}
	return &TrailBuffer{trail: trail}, nil
}

// Len 返回当前点数
func (b *TrailBuffer) Len() int {
	return len(b.trail.Points)
}

// Points 返回按插入顺序排列的点
func (b *TrailBuffer) Points() []components.TrailPoint {
	return b.trail.Points
}

// Tick 剪除过期点，按距离采样当前位置，并返回渲染视图
//
// 返回的切片在下一次 Tick 前有效。
func (b *TrailBuffer) Tick(now time.Duration, position math32.Vector3) []components.TrailView {
	t := b.trail

	// 1. 剪除：点按时间有序，过期的都在前面
	stale := 0
	for stale < len(t.Points) && now-t.Points[stale].CreatedAt >= t.FadeTime {
		stale++
	}
	if stale > 0 {
		t.Points = append(t.Points[:0], t.Points[stale:]...)
	}

	// 2. 采样
	if position.Sub(t.LastSampled).Length() >= t.Spacing {
		t.Points = append(t.Points, components.TrailPoint{Position: position, CreatedAt: now})
		t.LastSampled = position
		if over := len(t.Points) - t.MaxPoints; over > 0 {
			t.Points = append(t.Points[:0], t.Points[over:]...)
		}
	}

	// 3. 视图
	t.Views = t.Views[:0]
	for _, p := range t.Points {
		opacity := 1 - float64(now-p.CreatedAt)/float64(t.FadeTime)
		t.Views = append(t.Views, components.TrailView{
			Position:       p.Position,
			Opacity:        opacity,
			Emissive:       opacity * t.EmissiveMultiplier,
			LightIntensity: opacity * t.LightIntensity,
		})
	}
	return t.Views
}

// TrailSystem 每帧更新所有轨迹
//
// 时间取自场景时钟（自场景开始的累计时长），与帧率无关地淡出。
type TrailSystem struct {
	em      *ecs.EntityManager
	clock   time.Duration
	buffers map[ecs.EntityID]*TrailBuffer
}

// NewTrailSystem 创建轨迹系统
func NewTrailSystem(em *ecs.EntityManager) *TrailSystem {
	return &TrailSystem{
		em:      em,
		buffers: make(map[ecs.EntityID]*TrailBuffer),
	}
}

// Now 返回场景时钟
func (s *TrailSystem) Now() time.Duration {
	return s.clock
}

// Update 推进时钟并更新每个带 TrailComponent 和 TransformComponent 的实体
func (s *TrailSystem) Update(deltaTime float64) {
	if deltaTime > 0 {
		s.clock += time.Duration(deltaTime * float64(time.Second))
	}

	for _, id := range ecs.GetEntitiesWith2[*components.TrailComponent, *components.TransformComponent](s.em) {
		b, seen := s.buffers[id]
		if !seen {
			trail, _ := ecs.GetComponent[*components.TrailComponent](s.em, id)
			var err error
			b, err = NewTrailBuffer(trail)
			if err != nil {
				logDisabled("TrailSystem", id, err)
				b = nil
			}
			s.buffers[id] = b
		}
		if b == nil {
			continue
		}
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
		b.Tick(s.clock, transform.Position)
	}
}
