package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/entities"
	"github.com/decker502/roboworld/pkg/game"
	"github.com/decker502/roboworld/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// NewWorldScene 根据场景配置创建世界场景
//
// 参数:
//   - cfg: 场景配置，nil 时使用 DefaultSceneConfig
//   - deps: 外部服务
//
// 配置校验失败或实体创建失败时返回错误，不会留下任何输入订阅。
func NewWorldScene(cfg *config.SceneConfig, deps WorldDeps) (*WorldScene, error) {
	if cfg == nil {
		cfg = config.DefaultSceneConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.ScreenWidth <= 0 || deps.ScreenHeight <= 0 {
		deps.ScreenWidth, deps.ScreenHeight = config.GameWindowWidth, config.GameWindowHeight
	}

	s := &WorldScene{
		cfg:  cfg,
		deps: deps,
		em:   ecs.NewEntityManager(),
	}
	if err := s.initEntities(); err != nil {
		return nil, fmt.Errorf("failed to create world entities: %w", err)
	}
	s.initSystems()
	s.applySettings()
	if deps.Dispatcher != nil {
		s.sub = deps.Dispatcher.Subscribe(s.handleKey)
	}

	if cfg.Interaction.Chime {
		deps.Audio.Preload(game.SoundChime)
	}

	log.Printf("[WorldScene] Created: %d entities, %d stripes", s.em.EntityCount(), len(cfg.Stripes))
	return s, nil
}

// initEntities 创建地面、出生圈、光带、玩家、机械臂、摄像机和面板
func (s *WorldScene) initEntities() error {
	cfg := s.cfg
	em := s.em

	entities.NewGroundEntity(em, cfg.World)
	if _, err := entities.NewSpawnRingEntity(em, cfg.SpawnRing, cfg.Player.Start.Vector3()); err != nil {
		return err
	}
	for _, stripe := range cfg.Stripes {
		if _, err := entities.NewStripeEntity(em, stripe); err != nil {
			return err
		}
	}

	player, err := entities.NewPlayerEntity(em, cfg.Player, cfg.Trail)
	if err != nil {
		return err
	}
	s.player = player

	arm, err := entities.NewRobotArmEntity(em, cfg.Arm, cfg.Interaction)
	if err != nil {
		return err
	}
	s.arm = arm

	entities.NewCameraEntity(em, cfg.Camera, player)
	entities.NewOverlayEntity(em, cfg.Overlay, cfg.Interaction.CloseKey)
	return nil
}

// initSystems 按更新顺序创建系统
func (s *WorldScene) initSystems() {
	em := s.em
	dispatcher := s.deps.Dispatcher

	movement := systems.NewPlayerMovementSystem(em, dispatcher)
	interaction := systems.NewInteractionSystem(em, dispatcher, s.onInteract)
	s.overlaySystem = systems.NewOverlaySystem(em, dispatcher, s.deps.ScreenWidth, s.deps.ScreenHeight)

	armAnimation := systems.NewArmAnimationSystem(em)
	armAnimation.OnCycleCompleted = func(id ecs.EntityID, st components.ArmCycleState) {
		log.Printf("[WorldScene] Arm %d completed a cycle, cube now on the %s", id, sideName(st.SideFlag))
	}

	s.systems = []updater{
		systems.NewPulseSystem(em),
		movement,
		systems.NewPhysicsSystem(em, s.cfg.World.Gravity),
		armAnimation,
		systems.NewArmRigSystem(em),
		systems.NewPoseComposerSystem(em),
		systems.NewTrailSystem(em),
		interaction,
		systems.NewCameraFollowSystem(em),
		s.overlaySystem,
	}
	s.closers = []closer{movement, interaction, s.overlaySystem}

	s.renderSystem = systems.NewRenderSystem(em)
	s.uiRenderSystem = systems.NewUIRenderSystem(em, s.renderSystem.Projector(), s.loadFonts())
}

// applySettings 把已保存的显示设置应用到渲染系统
func (s *WorldScene) applySettings() {
	if s.deps.Settings == nil {
		return
	}
	settings := s.deps.Settings.GetSettings()
	s.renderSystem.ShowTrail = settings.ShowTrail
	s.uiRenderSystem.ShowHUD = settings.ShowHUD
}

// loadFonts 加载 UI 字体，失败时对应文字不绘制
func (s *WorldScene) loadFonts() systems.UIFonts {
	rm := s.deps.Resources
	if rm == nil {
		return systems.UIFonts{}
	}
	load := func(size float64) *text.GoTextFace {
		face, err := rm.LoadFont(game.DefaultFont, size)
		if err != nil {
			log.Printf("[WorldScene] Warning: failed to load font (size %.0f): %v", size, err)
			return nil
		}
		return face
	}
	return systems.UIFonts{
		Title: load(config.TitleFontSize),
		Body:  load(config.BodyFontSize),
		Small: load(config.SmallFontSize),
	}
}

// onInteract 交互键在范围内按下：打开面板并播放提示音
func (s *WorldScene) onInteract(zone ecs.EntityID, z *components.InteractionZoneComponent) {
	log.Printf("[WorldScene] Interaction %q triggered by zone %d", z.Title, zone)
	s.overlaySystem.Open()
	if s.cfg.Interaction.Chime {
		s.deps.Audio.PlaySound(game.SoundChime)
	}
}

func sideName(right bool) string {
	if right {
		return "right"
	}
	return "left"
}
