package systems

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProximityTriggerRange(t *testing.T) {
	p, err := NewProximityTrigger("R", nil)
	require.NoError(t, err)

	anchor := math32.Vec3(0, 0, 0)
	assert.True(t, p.Tick(math32.Vec3(14.9, 0, 0), anchor, 15))
	assert.True(t, p.InRange())
	assert.False(t, p.Tick(math32.Vec3(15.1, 0, 0), anchor, 15))
	assert.False(t, p.Tick(math32.Vec3(15, 0, 0), anchor, 15), "boundary is exclusive")
	// 三维距离
	assert.False(t, p.Tick(math32.Vec3(12, 10, 0), anchor, 15))
}

func TestNewProximityTriggerRequiresKey(t *testing.T) {
	_, err := NewProximityTrigger("  ", nil)
	assert.Error(t, err)
}

func TestProximityTriggerLatch(t *testing.T) {
	fired := 0
	p, err := NewProximityTrigger("r", func() { fired++ })
	require.NoError(t, err)

	// 按住不放只触发一次
	assert.True(t, p.OnKeyEvent(input.KeyDown("r"), true))
	assert.False(t, p.OnKeyEvent(input.KeyDown("r"), true))
	assert.Equal(t, 1, fired)

	// 松开后再次按下
	assert.False(t, p.OnKeyEvent(input.KeyUp("r"), true))
	assert.True(t, p.OnKeyEvent(input.KeyDown("R"), true))
	assert.Equal(t, 2, fired)

	// 其它按键不影响
	assert.False(t, p.OnKeyEvent(input.KeyDown("e"), true))
	assert.Equal(t, 2, fired)
}

func TestProximityTriggerOutOfRange(t *testing.T) {
	fired := 0
	p, _ := NewProximityTrigger("r", func() { fired++ })

	// 范围外按下：不触发，但锁存器记录了按下
	assert.False(t, p.OnKeyEvent(input.KeyDown("r"), false))
	// 按住进入范围：仍然不会触发
	assert.False(t, p.OnKeyEvent(input.KeyDown("r"), true))
	assert.Equal(t, 0, fired)

	p.OnKeyEvent(input.KeyUp("r"), true)
	assert.True(t, p.OnKeyEvent(input.KeyDown("r"), true))
	assert.Equal(t, 1, fired)
}

type interactionFixture struct {
	em         *ecs.EntityManager
	dispatcher *input.Dispatcher
	system     *InteractionSystem
	player     *components.TransformComponent
	zoneID     ecs.EntityID
	zone       *components.InteractionZoneComponent
	triggered  []ecs.EntityID
}

func newInteractionFixture(t *testing.T) *interactionFixture {
	t.Helper()
	f := &interactionFixture{
		em:         ecs.NewEntityManager(),
		dispatcher: input.NewDispatcher(),
	}

	playerID := f.em.CreateEntity()
	f.player = components.NewTransform(math32.Vec3(0, 2, 0))
	ecs.AddComponent(f.em, playerID, f.player)
	ecs.AddComponent(f.em, playerID, &components.PlayerComponent{Speed: 0.4})

	anchorID := f.em.CreateEntity()
	ecs.AddComponent(f.em, anchorID, components.NewTransform(math32.Vec3(20, 2, 20)))

	f.zoneID = f.em.CreateEntity()
	f.zone = &components.InteractionZoneComponent{Anchor: anchorID, Radius: 15, Key: "r", Title: "Robot Arm"}
	ecs.AddComponent(f.em, f.zoneID, f.zone)

	f.system = NewInteractionSystem(f.em, f.dispatcher, func(id ecs.EntityID, _ *components.InteractionZoneComponent) {
		f.triggered = append(f.triggered, id)
	})
	t.Cleanup(f.system.Close)
	return f
}

func TestInteractionSystemArmsZone(t *testing.T) {
	f := newInteractionFixture(t)

	f.system.Update(1.0 / 60)
	assert.False(t, f.zone.Armed)

	f.dispatcher.Publish(input.KeyDown("r"))
	f.dispatcher.Publish(input.KeyUp("r"))
	assert.Empty(t, f.triggered, "out of range presses must not trigger")

	f.player.Position = math32.Vec3(15, 2, 15)
	f.system.Update(1.0 / 60)
	assert.True(t, f.zone.Armed)

	f.dispatcher.Publish(input.KeyDown("r"))
	f.dispatcher.Publish(input.KeyDown("r")) // 自动重复
	require.Len(t, f.triggered, 1)
	assert.Equal(t, f.zoneID, f.triggered[0])
	assert.Equal(t, 1, f.zone.Fired)
}

func TestInteractionSystemClose(t *testing.T) {
	f := newInteractionFixture(t)
	f.player.Position = math32.Vec3(20, 2, 20)
	f.system.Update(1.0 / 60)

	assert.Equal(t, 1, f.dispatcher.SubscriberCount())
	f.system.Close()
	assert.Equal(t, 0, f.dispatcher.SubscriberCount())

	f.dispatcher.Publish(input.KeyDown("r"))
	assert.Empty(t, f.triggered)
}

func TestInteractionSystemInvalidRadius(t *testing.T) {
	f := newInteractionFixture(t)
	f.zone.Radius = 0
	f.player.Position = math32.Vec3(20, 2, 20)

	f.system.Update(1.0 / 60)
	assert.False(t, f.zone.Armed)
	f.dispatcher.Publish(input.KeyDown("r"))
	assert.Empty(t, f.triggered)
}
