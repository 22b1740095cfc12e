package scenes

import (
	"log"

	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/entities"
	"github.com/decker502/roboworld/pkg/game"
	"github.com/decker502/roboworld/pkg/input"
	"github.com/decker502/roboworld/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// 场景内的开关键
const (
	toggleTrailKey = "t"
	toggleHUDKey   = "h"
)

// updater 每帧推进一次的系统
type updater interface {
	Update(deltaTime float64)
}

// closer 持有输入订阅的系统
type closer interface {
	Close()
}

// WorldDeps 场景依赖的外部服务，均可为 nil
type WorldDeps struct {
	Dispatcher *input.Dispatcher
	Resources  *game.ResourceManager
	Audio      *game.AudioManager
	Settings   *game.SettingsManager

	// 逻辑屏幕尺寸，用于面板按钮的点击判定
	ScreenWidth, ScreenHeight float64
}

// WorldScene 可探索的三维场景：玩家球体、机械臂展品、导航光带和内容面板
//
// 系统更新顺序：
//
//	Pulse → PlayerMovement → Physics → ArmAnimation → ArmRig → PoseComposer
//	→ Trail → Interaction → CameraFollow → Overlay
//
// 机械臂姿态先于组合器计算，方块位置与本帧的关节世界变换一致；
// 交互判定使用本帧物理积分后的玩家位置。
type WorldScene struct {
	cfg  *config.SceneConfig
	deps WorldDeps
	em   *ecs.EntityManager

	player ecs.EntityID
	arm    *entities.RobotArm

	systems []updater
	closers []closer

	overlaySystem  *systems.OverlaySystem
	renderSystem   *systems.RenderSystem
	uiRenderSystem *systems.UIRenderSystem

	sub    *input.Subscription
	closed bool
}

// Update 按固定顺序推进所有系统
func (s *WorldScene) Update(deltaTime float64) {
	if s.closed {
		return
	}
	for _, sys := range s.systems {
		sys.Update(deltaTime)
	}
	s.em.RemoveMarkedEntities()
}

// Draw 先绘制三维场景，再绘制 UI
func (s *WorldScene) Draw(screen *ebiten.Image) {
	if s.closed {
		return
	}
	s.renderSystem.Draw(screen)
	s.uiRenderSystem.Draw(screen)
}

// Close 注销场景持有的全部输入订阅，可重复调用
func (s *WorldScene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.sub.Close()
	for _, c := range s.closers {
		c.Close()
	}
	log.Printf("[WorldScene] Closed")
}

// EntityManager 返回场景的实体管理器
func (s *WorldScene) EntityManager() *ecs.EntityManager {
	return s.em
}

// Player 返回玩家实体
func (s *WorldScene) Player() ecs.EntityID {
	return s.player
}

// Arm 返回机械臂展品
func (s *WorldScene) Arm() *entities.RobotArm {
	return s.arm
}

// OverlayOpen 内容面板是否打开
func (s *WorldScene) OverlayOpen() bool {
	return s.overlaySystem.IsOpen()
}

// TrailVisible 是否绘制轨迹
func (s *WorldScene) TrailVisible() bool {
	return s.renderSystem.ShowTrail
}

// HUDVisible 是否绘制操作说明
func (s *WorldScene) HUDVisible() bool {
	return s.uiRenderSystem.ShowHUD
}

// handleKey 处理场景级开关键，设置变化后立即保存
func (s *WorldScene) handleKey(ev input.KeyEvent) {
	if !ev.Down {
		return
	}
	switch ev.Key {
	case toggleTrailKey:
		if s.deps.Settings != nil {
			s.renderSystem.ShowTrail = s.deps.Settings.ToggleTrail()
		} else {
			s.renderSystem.ShowTrail = !s.renderSystem.ShowTrail
		}
		log.Printf("[WorldScene] Trail visible: %v", s.renderSystem.ShowTrail)
	case toggleHUDKey:
		if s.deps.Settings != nil {
			s.uiRenderSystem.ShowHUD = s.deps.Settings.ToggleHUD()
		} else {
			s.uiRenderSystem.ShowHUD = !s.uiRenderSystem.ShowHUD
		}
		log.Printf("[WorldScene] HUD visible: %v", s.uiRenderSystem.ShowHUD)
	default:
		return
	}
	s.saveSettings()
}

func (s *WorldScene) saveSettings() {
	if s.deps.Settings == nil {
		return
	}
	if err := s.deps.Settings.Save(); err != nil {
		log.Printf("[WorldScene] Warning: failed to save settings: %v", err)
	}
}
