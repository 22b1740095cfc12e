// Package app 提供应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/embedded"
	"github.com/decker502/roboworld/pkg/game"
	"github.com/decker502/roboworld/pkg/input"
	"github.com/decker502/roboworld/pkg/scenes"
	"github.com/decker502/roboworld/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储目录名
const AppName = "roboworld"

// fullscreenKey 切换全屏
const fullscreenKey = "f11"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ScenePath 磁盘上的场景配置文件，为空时使用内置配置
	ScenePath string
	// Watch 监视 ScenePath，文件变化时重建场景
	Watch bool
	// Fullscreen 以全屏模式启动（覆盖已保存的设置）
	Fullscreen bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	dispatcher      *input.Dispatcher
	settingsManager *game.SettingsManager
	watcher         *config.ConfigWatcher // 可为 nil
	sub             *input.Subscription
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用内置配置时，调用此函数前应先调用 embedded.Init()；
// 未初始化时退回到 DefaultSceneConfig。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	sceneConfig, err := loadSceneConfig(cfg.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(game.SampleRate)
	resourceManager := game.NewResourceManager(audioContext)

	settingsManager := game.NewSettingsManager(openStorage())
	audioManager := game.NewAudioManager(resourceManager, settingsManager)
	log.Printf("[App] AudioManager initialized")

	dispatcher := input.NewDispatcher()

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(c *config.SceneConfig) (game.Scene, error) {
		scene, err := scenes.NewWorldScene(c, scenes.WorldDeps{
			Dispatcher:   dispatcher,
			Resources:    resourceManager,
			Audio:        audioManager,
			Settings:     settingsManager,
			ScreenWidth:  config.GameWindowWidth,
			ScreenHeight: config.GameWindowHeight,
		})
		if err != nil {
			return nil, err
		}
		return scene, nil
	})
	if err := sceneManager.Load(sceneConfig); err != nil {
		return nil, err
	}

	a := &App{
		sceneManager:    sceneManager,
		dispatcher:      dispatcher,
		settingsManager: settingsManager,
		verbose:         cfg.Verbose,
	}
	a.sub = dispatcher.Subscribe(a.handleKey)

	if cfg.Fullscreen || settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if cfg.Watch {
		a.startWatcher(cfg.ScenePath)
	}
	return a, nil
}

// loadSceneConfig 按优先级加载场景配置：磁盘文件 > 内置文件 > 默认值
func loadSceneConfig(path string) (*config.SceneConfig, error) {
	if path != "" {
		log.Printf("[App] Loading scene config from %s", path)
		return config.LoadSceneConfigFile(path)
	}
	if !embedded.IsInitialized() {
		log.Printf("[App] Embedded data not initialized, using default scene config")
		return config.DefaultSceneConfig(), nil
	}
	return config.LoadSceneConfig(config.DefaultSceneConfigPath)
}

// openStorage 打开设置存储，失败时返回 nil（设置只保存在内存中）
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage directory unavailable: %v", err)
		return nil
	}
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: failed to open gdata storage: %v (settings will not be saved)", err)
		return nil
	}
	return m
}

func (a *App) startWatcher(path string) {
	if path == "" {
		log.Printf("[App] Warning: -watch requires -config, hot reload disabled")
		return
	}
	watcher, err := config.NewConfigWatcher(path)
	if err != nil {
		log.Printf("[App] Warning: hot reload disabled: %v", err)
		return
	}
	a.watcher = watcher
}

// Update 更新逻辑
// 每个 tick 调用一次（每秒 config.TPS 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if a.watcher != nil {
		a.applyConfigUpdates(a.watcher.Updates())
	}

	a.dispatcher.Poll()

	deltaTime := 1.0 / float64(config.TPS)
	a.sceneManager.Update(deltaTime)
	return nil
}

// applyConfigUpdates 非阻塞地取出最新的配置并重建场景
// 重建失败时保留当前场景
func (a *App) applyConfigUpdates(updates <-chan *config.SceneConfig) {
	select {
	case cfg := <-updates:
		if err := a.sceneManager.Load(cfg); err != nil {
			log.Printf("[App] Hot reload failed: %v", err)
			return
		}
		log.Printf("[App] Scene rebuilt from updated config")
	default:
	}
}

func (a *App) handleKey(ev input.KeyEvent) {
	if !ev.Down || ev.Key != fullscreenKey {
		return
	}
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		a.settingsManager.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		a.settingsManager.SetFullscreen(true)
	}
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 停止配置监视并关闭当前场景
// 在 ebiten.RunGame 返回后调用
func (a *App) Close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("[App] Warning: failed to close config watcher: %v", err)
		}
		a.watcher = nil
	}
	a.sub.Close()
	a.sceneManager.Close()
	a.dispatcher.Close()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
