package entities

import (
	"fmt"
	"time"

	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/ecs"
)

// NewPlayerEntity 创建玩家球体
//
// 球体带有速度、碰撞体和轨迹组件。轨迹的上一次采样点初始化为出生点，
// 因此静止的球不会在第一帧留下标记。
//
// 返回:
//   - ecs.EntityID: 玩家实体ID，失败时为 0
//   - error: 配置非法时返回错误
func NewPlayerEntity(em *ecs.EntityManager, player config.PlayerConfig, trail config.TrailConfig) (ecs.EntityID, error) {
	if !(player.Radius > 0) {
		return 0, fmt.Errorf("player radius must be > 0, got %v", player.Radius)
	}
	if trail.MaxPoints <= 0 || !(trail.Spacing > 0) || trail.FadeTimeMs <= 0 {
		return 0, fmt.Errorf("invalid trail config: maxPoints=%d spacing=%v fadeTimeMs=%d",
			trail.MaxPoints, trail.Spacing, trail.FadeTimeMs)
	}

	start := player.Start.Vector3()
	id := em.CreateEntity()
	em.AddComponent(id, components.NewTransform(start))
	em.AddComponent(id, &components.PlayerComponent{
		Speed:               player.Speed,
		RollSpeedMultiplier: player.RollSpeedMultiplier,
		Color:               config.MustColor(player.Color),
	})
	em.AddComponent(id, &components.VelocityComponent{})
	em.AddComponent(id, &components.BodyComponent{Radius: player.Radius})
	em.AddComponent(id, &components.TrailComponent{
		MaxPoints:          trail.MaxPoints,
		Spacing:            trail.Spacing,
		FadeTime:           time.Duration(trail.FadeTimeMs) * time.Millisecond,
		LightIntensity:     trail.LightIntensity,
		EmissiveMultiplier: trail.EmissiveMultiplier,
		MarkerRadius:       player.Radius * trail.MarkerSizeRatio,
		Points:             make([]components.TrailPoint, 0, trail.MaxPoints+1),
		LastSampled:        start,
	})
	return id, nil
}
