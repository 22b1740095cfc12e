package game

import (
	"errors"
	"testing"

	"github.com/decker502/roboworld/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene 记录调用情况的场景
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	closed       int
	deltaTime    float64
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) Close() {
	m.closed++
}

// TestNewSceneManager 初始没有场景，Update/Draw 不应 panic
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no scene initially")
	}
	sm.Update(0.016)
	sm.Draw(nil)
	sm.Close()
}

// TestSceneManagerUpdateDraw 调用转发到当前场景
func TestSceneManagerUpdateDraw(t *testing.T) {
	sm := NewSceneManager()
	mock := &MockScene{}
	sm.SwitchTo(mock)

	sm.Update(0.016)
	sm.Draw(nil)

	if !mock.updateCalled || !mock.drawCalled {
		t.Error("Update and Draw should reach the current scene")
	}
	if mock.deltaTime != 0.016 {
		t.Errorf("deltaTime = %v, want 0.016", mock.deltaTime)
	}
}

// TestSceneManagerSwitchClosesOld 切换场景时关闭旧场景
func TestSceneManagerSwitchClosesOld(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.SwitchTo(scene1)
	if scene1.closed != 0 {
		t.Error("switching to the same scene must not close it")
	}

	sm.SwitchTo(scene2)
	if scene1.closed != 1 {
		t.Errorf("scene1 closed %d times, want 1", scene1.closed)
	}
	sm.Update(0.016)
	if scene1.updateCalled {
		t.Error("old scene must not be updated")
	}

	sm.Close()
	if scene2.closed != 1 || sm.GetCurrentScene() != nil {
		t.Error("Close should close and clear the current scene")
	}
}

// TestSceneManagerLoad 用工厂重建场景，失败时保留旧场景
func TestSceneManagerLoad(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Load(config.DefaultSceneConfig()); err == nil {
		t.Error("Load without a factory should fail")
	}

	var built []*MockScene
	fail := false
	sm.SetSceneFactory(func(cfg *config.SceneConfig) (Scene, error) {
		if fail {
			return nil, errors.New("boom")
		}
		s := &MockScene{}
		built = append(built, s)
		return s, nil
	})

	if err := sm.Load(config.DefaultSceneConfig()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	first := sm.GetCurrentScene()

	fail = true
	if err := sm.Load(config.DefaultSceneConfig()); err == nil {
		t.Error("Load should report factory errors")
	}
	if sm.GetCurrentScene() != first || built[0].closed != 0 {
		t.Error("failed Load must keep the current scene open")
	}

	fail = false
	if err := sm.Load(config.DefaultSceneConfig()); err != nil {
		t.Fatal(err)
	}
	if built[0].closed != 1 || sm.GetCurrentScene() != Scene(built[1]) {
		t.Error("successful Load should replace and close the old scene")
	}
}
