package systems

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/input"
	"github.com/stretchr/testify/assert"
)

func TestPlayerVelocity(t *testing.T) {
	tests := []struct {
		name                     string
		forward, back, left, rgt bool
		vx, vz                   float32
	}{
		{"静止", false, false, false, false, 0, 0},
		{"前进", true, false, false, false, 0, -0.5},
		{"后退", false, true, false, false, 0, 0.5},
		{"左移", false, false, true, false, -0.5, 0},
		{"右移", false, false, false, true, 0.5, 0},
		{"斜向", true, false, false, true, 0.5, -0.5},
		{"相反抵消", true, true, true, true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &components.PlayerComponent{Speed: 0.5, Forward: tt.forward, Back: tt.back, Left: tt.left, Right: tt.rgt}
			vx, vz := PlayerVelocity(p)
			assert.Equal(t, tt.vx, vx)
			assert.Equal(t, tt.vz, vz)
		})
	}
}

func newMovementFixture(t *testing.T) (*ecs.EntityManager, *input.Dispatcher, *PlayerMovementSystem, ecs.EntityID) {
	t.Helper()
	em := ecs.NewEntityManager()
	d := input.NewDispatcher()
	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewTransform(math32.Vec3(0, 2, 0)))
	ecs.AddComponent(em, id, &components.PlayerComponent{Speed: 0.4, RollSpeedMultiplier: 0.1})
	ecs.AddComponent(em, id, &components.VelocityComponent{})
	s := NewPlayerMovementSystem(em, d)
	t.Cleanup(s.Close)
	return em, d, s, id
}

func TestPlayerMovementFollowsKeys(t *testing.T) {
	em, d, s, id := newMovementFixture(t)
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)

	s.Update(1.0 / 60)
	assert.Equal(t, float32(0), vel.Linear.X)
	assert.Equal(t, float32(0), vel.Linear.Z)
	assert.Equal(t, float32(1), transform.Rotation.W, "idle ball must not roll")

	d.Publish(input.KeyDown("W"))
	d.Publish(input.KeyDown("d"))
	s.Update(1.0 / 60)
	assert.Equal(t, float32(0.4), vel.Linear.X)
	assert.Equal(t, float32(-0.4), vel.Linear.Z)

	rot := transform.Rotation
	assert.Less(t, rot.W, float32(1), "moving ball must roll")
	length := math32.Sqrt(rot.X*rot.X + rot.Y*rot.Y + rot.Z*rot.Z + rot.W*rot.W)
	assert.InDelta(t, 1, length, 1e-5)
	assert.InDelta(t, 0, rot.Y, 1e-6, "roll axis stays horizontal")

	d.Publish(input.KeyUp("w"))
	d.Publish(input.KeyUp("d"))
	s.Update(1.0 / 60)
	assert.Equal(t, float32(0), vel.Linear.X)
	assert.Equal(t, float32(0), vel.Linear.Z)
}

func TestPlayerMovementKeepsVerticalVelocity(t *testing.T) {
	em, d, s, id := newMovementFixture(t)
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	vel.Linear.Y = -3

	d.Publish(input.KeyDown("a"))
	s.Update(1.0 / 60)
	assert.Equal(t, float32(-3), vel.Linear.Y)
	assert.Equal(t, float32(-0.4), vel.Linear.X)
}

func TestPlayerMovementClose(t *testing.T) {
	em, d, s, id := newMovementFixture(t)
	s.Close()

	d.Publish(input.KeyDown("w"))
	player, _ := ecs.GetComponent[*components.PlayerComponent](em, id)
	assert.False(t, player.Forward)
}
