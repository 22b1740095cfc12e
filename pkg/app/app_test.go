package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSceneConfig(t *testing.T) {
	t.Run("默认配置", func(t *testing.T) {
		cfg, err := loadSceneConfig("")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultSceneConfig(), cfg)
	})

	t.Run("磁盘文件覆盖默认值", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scene.yaml")
		require.NoError(t, os.WriteFile(path, []byte("interaction:\n  radius: 25\n"), 0o644))

		cfg, err := loadSceneConfig(path)
		require.NoError(t, err)
		assert.Equal(t, float32(25), cfg.Interaction.Radius)
		assert.Equal(t, "r", cfg.Interaction.Key)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := loadSceneConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("校验失败", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scene.yaml")
		require.NoError(t, os.WriteFile(path, []byte("camera:\n  lerpFactor: 2\n"), 0o644))
		_, err := loadSceneConfig(path)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

// stubScene 记录配置和关闭次数
type stubScene struct {
	cfg    *config.SceneConfig
	closed int
}

func (s *stubScene) Update(float64)     {}
func (s *stubScene) Draw(*ebiten.Image) {}
func (s *stubScene) Close()             { s.closed++ }

func newStubApp() (*App, *[]*stubScene) {
	var built []*stubScene
	sm := game.NewSceneManager()
	sm.SetSceneFactory(func(cfg *config.SceneConfig) (game.Scene, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		s := &stubScene{cfg: cfg}
		built = append(built, s)
		return s, nil
	})
	return &App{sceneManager: sm}, &built
}

func TestApplyConfigUpdates(t *testing.T) {
	a, built := newStubApp()
	require.NoError(t, a.sceneManager.Load(config.DefaultSceneConfig()))
	require.Len(t, *built, 1)

	updates := make(chan *config.SceneConfig, 1)

	// 没有更新时什么都不做
	a.applyConfigUpdates(updates)
	assert.Len(t, *built, 1)

	next := config.DefaultSceneConfig()
	next.Interaction.Radius = 30
	updates <- next
	a.applyConfigUpdates(updates)
	require.Len(t, *built, 2)
	assert.Equal(t, 1, (*built)[0].closed, "old scene closed")
	assert.Same(t, (*built)[1], a.sceneManager.GetCurrentScene())

	// 无效配置保留当前场景
	bad := config.DefaultSceneConfig()
	bad.Trail.MaxPoints = 0
	updates <- bad
	a.applyConfigUpdates(updates)
	assert.Len(t, *built, 2)
	assert.Same(t, (*built)[1], a.sceneManager.GetCurrentScene())
	assert.Equal(t, 0, (*built)[1].closed)
}

func TestLayout(t *testing.T) {
	a := &App{}
	w, h := a.Layout(100, 100)
	assert.Equal(t, config.GameWindowWidth, w)
	assert.Equal(t, config.GameWindowHeight, h)
}
