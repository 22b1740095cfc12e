package systems

import (
	"testing"

	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOverlayFixture(t *testing.T) (*OverlaySystem, *components.OverlayComponent, *input.Dispatcher) {
	t.Helper()
	em := ecs.NewEntityManager()
	o := &components.OverlayComponent{
		Title:        "Blog",
		WidthRatio:   0.5,
		MaxWidth:     800,
		SlideSeconds: 0.5,
	}
	ecs.AddComponent(em, em.CreateEntity(), o)

	d := input.NewDispatcher()
	s := NewOverlaySystem(em, d, 1280, 720)
	s.SetPointerFunc(nil)
	t.Cleanup(s.Close)
	return s, o, d
}

func TestOverlayLayout(t *testing.T) {
	o := &components.OverlayComponent{WidthRatio: 0.5, MaxWidth: 600, Progress: 1}
	panel, btn := OverlayLayout(1600, 900, o)
	assert.Equal(t, Rect{X: 1000, Y: 0, W: 600, H: 900}, panel)
	assert.Equal(t, 1600-OverlayPadding-OverlayButtonWidth, btn.X)
	assert.True(t, panel.Contains(btn.X+1, btn.Y+1))

	o.Progress = 0
	panel, _ = OverlayLayout(1600, 900, o)
	assert.Equal(t, 1600.0, panel.X, "closed panel sits off screen")

	o.MaxWidth = 0
	o.Progress = 1
	panel, _ = OverlayLayout(1000, 900, o)
	assert.Equal(t, 500.0, panel.W)
}

func TestOverlaySlideAnimation(t *testing.T) {
	s, o, _ := newOverlayFixture(t)

	var states []bool
	s.OnStateChange = func(open bool) { states = append(states, open) }

	s.Open()
	s.Open()
	assert.True(t, s.IsOpen())
	assert.Equal(t, []bool{true}, states)

	s.Update(0.25)
	assert.InDelta(t, 0.5, o.Linear, 1e-12)
	assert.InDelta(t, 0.875, o.Progress, 1e-12)

	s.Update(0.25)
	s.Update(0.25)
	assert.Equal(t, 1.0, o.Linear)
	assert.Equal(t, 1.0, o.Progress)

	s.Dismiss()
	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60)
	}
	assert.Equal(t, 0.0, o.Progress)
	assert.Equal(t, []bool{true, false}, states)
}

func TestOverlayEscapeCloses(t *testing.T) {
	s, o, d := newOverlayFixture(t)

	// 面板关闭时 Escape 无效
	d.Publish(input.KeyDown("escape"))
	assert.False(t, o.Open)

	s.Open()
	d.Publish(input.KeyDown("w"))
	assert.True(t, o.Open)
	d.Publish(input.KeyUp("escape"))
	assert.True(t, o.Open)
	d.Publish(input.KeyDown("Escape"))
	assert.False(t, o.Open)
}

func TestOverlayCustomCloseKey(t *testing.T) {
	s, o, d := newOverlayFixture(t)
	o.CloseKey = "Q"
	s.Open()

	d.Publish(input.KeyDown("escape"))
	assert.True(t, o.Open)
	d.Publish(input.KeyDown("q"))
	assert.False(t, o.Open)
}

func TestOverlayCloseButton(t *testing.T) {
	s, o, _ := newOverlayFixture(t)
	s.Open()
	s.Update(1) // 完全滑入

	_, btn := OverlayLayout(1280, 720, o)

	// 点在按钮外
	s.SetPointerFunc(func() (bool, int, int) { return true, int(btn.X) - 50, int(btn.Y) + 5 })
	s.Update(1.0 / 60)
	require.True(t, o.Open)

	s.SetPointerFunc(func() (bool, int, int) { return true, int(btn.X) + 5, int(btn.Y) + 5 })
	s.Update(1.0 / 60)
	assert.False(t, o.Open)
}

func TestOverlayInstantSlide(t *testing.T) {
	s, o, _ := newOverlayFixture(t)
	o.SlideSeconds = 0
	s.Open()
	s.Update(1.0 / 60)
	assert.Equal(t, 1.0, o.Progress)
}
