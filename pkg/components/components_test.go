package components

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func TestStripeGeometry(t *testing.T) {
	s := &StripeComponent{
		Start: math32.Vec3(-10, 0, 0),
		End:   math32.Vec3(10, 0, 0),
	}
	assert.Equal(t, math32.Vec3(0, 0, 0), s.Midpoint())
	assert.InDelta(t, 20, s.Length(), 1e-6)
	assert.InDelta(t, 0, s.Heading(), 1e-6)

	// 沿 +Z 的光带朝向 π/2
	z := &StripeComponent{Start: math32.Vec3(0, 0, 0), End: math32.Vec3(0, 0, 5)}
	assert.InDelta(t, math32.Pi/2, z.Heading(), 1e-6)
}

func TestStripeLabelPositionRidesPulse(t *testing.T) {
	s := &StripeComponent{
		Start: math32.Vec3(-10, 0, 0),
		End:   math32.Vec3(10, 0, 0),
	}

	tests := []struct {
		pulse float64
		wantX float32
	}{
		{0, -10},
		{0.25, -5},
		{0.5, 0},
		{0.75, 5},
	}
	for _, tt := range tests {
		s.Pulse = tt.pulse
		assert.InDelta(t, tt.wantX, s.LabelPosition().X, 1e-5, "pulse=%v", tt.pulse)
	}
}

func TestOverlayVisible(t *testing.T) {
	o := &OverlayComponent{}
	assert.False(t, o.Visible())

	o.Open = true
	assert.True(t, o.Visible())

	// 关闭后滑出动画期间仍然可见
	o.Open = false
	o.Progress = 0.3
	assert.True(t, o.Visible())
}

func TestNewArmComponent(t *testing.T) {
	durations := []float64{0.5, 1, 1, 0.3, 1, 1.5, 1, 0.3}
	arm := NewArmComponent(durations, ArmMotion{})

	assert.True(t, arm.Cycle.SideFlag, "cube starts on the right")
	assert.True(t, arm.Cycle.IsFirstCycle)
	assert.Equal(t, 0, arm.Cycle.CurrentPhase)
	assert.Equal(t, 1.0, arm.Pose.GripperAperture)

	// 阶段表被复制，外部修改不影响组件
	durations[0] = 99
	assert.Equal(t, 0.5, arm.PhaseDurations[0])
}

func TestJointAxisVector(t *testing.T) {
	assert.Equal(t, math32.Vec3(0, 1, 0), JointAxisY.Vector())
	assert.Equal(t, math32.Vec3(0, 0, 1), JointAxisZ.Vector())
	assert.Equal(t, math32.Vector3{}, JointAxisNone.Vector())
}

func TestNewTransform(t *testing.T) {
	tr := NewTransform(math32.Vec3(1, 2, 3))
	assert.Equal(t, math32.Vec3(1, 2, 3), tr.Position)
	assert.Equal(t, math32.NewQuat(0, 0, 0, 1), tr.Rotation)
}
