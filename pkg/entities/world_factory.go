package entities

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/systems"
)

// 出生圈略高于地面，避免与网格重叠闪烁
const spawnRingHeight = 0.01

// NewGroundEntity 创建地面实体
func NewGroundEntity(em *ecs.EntityManager, cfg config.WorldConfig) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, components.NewTransform(math32.Vector3{}))
	em.AddComponent(id, &components.GroundComponent{
		Size:        cfg.Size,
		GridSpacing: cfg.GridSpacing,
		Background:  config.MustColor(cfg.Background),
		GridColor:   config.MustColor(cfg.GridColor),
	})
	return id
}

// NewSpawnRingEntity 在玩家出生点的地面上创建扫光圆环
//
// 参数:
//   - em: 实体管理器
//   - cfg: 圆环配置
//   - center: 出生点（只使用 X/Z）
func NewSpawnRingEntity(em *ecs.EntityManager, cfg config.SpawnRingConfig, center math32.Vector3) (ecs.EntityID, error) {
	if !(cfg.Radius > 0) {
		return 0, fmt.Errorf("spawn ring radius must be > 0, got %v", cfg.Radius)
	}

	id := em.CreateEntity()
	em.AddComponent(id, components.NewTransform(math32.Vec3(center.X, spawnRingHeight, center.Z)))
	em.AddComponent(id, &components.SpawnRingComponent{
		Radius:     cfg.Radius,
		PulseSpeed: cfg.PulseSpeed,
		PulseWidth: cfg.PulseWidth,
		Label:      cfg.Label,
		Color:      config.MustColor(cfg.Color),
		PulseColor: config.MustColor(cfg.PulseColor),
	})
	return id, nil
}

// NewStripeEntity 创建一条导航光带
// 相位延迟 PulsePhase 转换为共享时钟上的时间偏移
func NewStripeEntity(em *ecs.EntityManager, cfg config.StripeConfig) (ecs.EntityID, error) {
	if cfg.Start == cfg.End {
		return 0, fmt.Errorf("stripe %q has zero length", cfg.Label)
	}
	if !(cfg.Width > 0) {
		return 0, fmt.Errorf("stripe %q width must be > 0, got %v", cfg.Label, cfg.Width)
	}

	stripe := &components.StripeComponent{
		Start:      cfg.Start.Vector3(),
		End:        cfg.End.Vector3(),
		Width:      cfg.Width,
		Label:      cfg.Label,
		PulseSpeed: cfg.PulseSpeed,
		PulseWidth: cfg.PulseWidth,
		Offset:     systems.OffsetFor(cfg.PulsePhase, cfg.PulseSpeed),
	}

	id := em.CreateEntity()
	em.AddComponent(id, components.NewTransform(stripe.Midpoint()))
	em.AddComponent(id, stripe)
	return id, nil
}

// NewCameraEntity 创建跟随 target 的摄像机
func NewCameraEntity(em *ecs.EntityManager, cfg config.CameraConfig, target ecs.EntityID) ecs.EntityID {
	id := em.CreateEntity()
	start := cfg.Start.Vector3()
	em.AddComponent(id, &components.CameraComponent{
		Target:     target,
		Position:   start,
		Offset:     cfg.Offset.Vector3(),
		LookAt:     math32.Vector3{},
		LerpFactor: cfg.LerpFactor,
		FOV:        cfg.FOV,
	})
	return id
}

// NewOverlayEntity 创建内容面板（初始关闭）
func NewOverlayEntity(em *ecs.EntityManager, cfg config.OverlayConfig, closeKey string) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.OverlayComponent{
		Title:        cfg.Title,
		URL:          cfg.URL,
		WidthRatio:   cfg.WidthRatio,
		MaxWidth:     cfg.MaxWidth,
		SlideSeconds: cfg.SlideSeconds,
		CloseKey:     closeKey,
	})
	return id
}
