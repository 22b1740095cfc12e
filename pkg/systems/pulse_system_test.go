package systems

import (
	"math"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
)

func TestPeriodicSignalWraps(t *testing.T) {
	var p PeriodicSignal

	p.Tick(0.5)
	if got := p.ValueAt(1, 0); got != 0.5 {
		t.Errorf("ValueAt after 0.5s = %v, want 0.5", got)
	}

	p.Tick(0.5)
	if got := p.ValueAt(1, 0); got != 0 {
		t.Errorf("ValueAt after 1.0s = %v, want 0 (wrap)", got)
	}
}

func TestPeriodicSignalRange(t *testing.T) {
	var p PeriodicSignal
	for i := 0; i < 500; i++ {
		p.Tick(1.0 / 60)
		for _, tc := range []struct{ speed, offset float64 }{
			{0.5, 0}, {1, -0.3}, {2.5, 7}, {-1, 0}, {0.5, -100},
		} {
			v := p.ValueAt(tc.speed, tc.offset)
			if v < 0 || v >= 1 {
				t.Fatalf("ValueAt(%v, %v) = %v out of [0,1)", tc.speed, tc.offset, v)
			}
		}
	}
}

func TestPeriodicSignalIgnoresNonPositiveDelta(t *testing.T) {
	var p PeriodicSignal
	p.Tick(0.25)
	p.Tick(0)
	p.Tick(-1)
	if p.Elapsed() != 0.25 {
		t.Errorf("Elapsed = %v, want 0.25", p.Elapsed())
	}
	if p.ValueAt(0, 3) != 0 {
		t.Error("speed 0 must yield 0")
	}
}

func TestOffsetFor(t *testing.T) {
	// 偏移使信号在 targetFraction/speed 秒时归零
	speed := 0.5
	offset := OffsetFor(0.25, speed)

	var p PeriodicSignal
	p.Tick(0.25 / speed)
	if got := p.ValueAt(speed, offset); math.Abs(got) > 1e-12 {
		t.Errorf("ValueAt = %v, want 0", got)
	}
	if OffsetFor(0.3, 0) != 0 {
		t.Error("OffsetFor with speed 0 should be 0")
	}
}

func TestPulseSystemUpdatesStripesAndRing(t *testing.T) {
	em := ecs.NewEntityManager()

	stripeID := em.CreateEntity()
	stripe := &components.StripeComponent{
		Start:      math32.Vec3(0, 0, 0),
		End:        math32.Vec3(10, 0, 0),
		Width:      2,
		PulseSpeed: 0.5,
	}
	ecs.AddComponent(em, stripeID, stripe)

	ringID := em.CreateEntity()
	ring := &components.SpawnRingComponent{Radius: 10, PulseSpeed: 0.5, PulseWidth: 0.05}
	ecs.AddComponent(em, ringID, ring)

	s := NewPulseSystem(em)
	s.Update(0.5)

	if stripe.Pulse != 0.25 {
		t.Errorf("stripe pulse = %v, want 0.25", stripe.Pulse)
	}
	if ring.Sweep != 0.25 {
		t.Errorf("ring sweep = %v, want 0.25", ring.Sweep)
	}

	// 标签随脉冲沿光带移动：pulse=0.25 时位于中点左侧 length/4
	label := stripe.LabelPosition()
	if math.Abs(float64(label.X)-2.5) > 1e-5 {
		t.Errorf("label x = %v, want 2.5", label.X)
	}
}

func TestStripeGeometry(t *testing.T) {
	s := &components.StripeComponent{Start: math32.Vec3(0, 0, 0), End: math32.Vec3(0, 0, 10)}
	if got := s.Length(); got != 10 {
		t.Errorf("Length = %v, want 10", got)
	}
	if mid := s.Midpoint(); mid != math32.Vec3(0, 0, 5) {
		t.Errorf("Midpoint = %v", mid)
	}
	if got := float64(s.Heading()); math.Abs(got-math.Pi/2) > 1e-6 {
		t.Errorf("Heading = %v, want π/2", got)
	}
}

func TestSweepIntensity(t *testing.T) {
	tests := []struct {
		name         string
		angle, sweep float64
		want         float64
	}{
		{"正中", 0.3, 0.3, 1},
		{"宽度之外", 0.5, 0.3, 0},
		{"跨越零点", 0.99, 0.01, 0.648},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SweepIntensity(tt.angle, tt.sweep, 0.05)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SweepIntensity(%v, %v) = %v, want %v", tt.angle, tt.sweep, got, tt.want)
			}
		})
	}

	if got := StripeIntensity(0.5, 0.5, 0.2); got != 0.5 {
		t.Errorf("StripeIntensity peak = %v, want 0.5", got)
	}
	if got := StripeIntensity(0.9, 0.5, 0.2); got != 0 {
		t.Errorf("StripeIntensity far = %v, want 0", got)
	}
}
