package game

import (
	"fmt"
	"log"

	"github.com/decker502/roboworld/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 根据场景配置创建场景
// 由 main 注入，避免 game 包依赖 scenes 包
type SceneFactory func(cfg *config.SceneConfig) (Scene, error)

// SceneManager 管理当前活动的场景
// 任一时刻只有一个场景的 Update 和 Draw 被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到新场景，旧场景被关闭
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		sm.currentScene.Close()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Load 用新配置重建场景
//
// 创建失败时保留当前场景并返回错误。
func (sm *SceneManager) Load(cfg *config.SceneConfig) error {
	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}
	scene, err := sm.sceneFactory(cfg)
	if err != nil {
		log.Printf("[SceneManager] 场景创建失败，保留当前场景: %v", err)
		return fmt.Errorf("failed to build scene: %w", err)
	}
	sm.SwitchTo(scene)
	log.Printf("[SceneManager] 场景已加载")
	return nil
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Close 关闭当前场景
func (sm *SceneManager) Close() {
	if sm.currentScene != nil {
		sm.currentScene.Close()
		sm.currentScene = nil
	}
}
