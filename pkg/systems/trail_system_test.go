package systems

import (
	"errors"
	"math"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
)

func newTestTrail(maxPoints int, spacing float32, fade time.Duration) *components.TrailComponent {
	return &components.TrailComponent{
		MaxPoints:          maxPoints,
		Spacing:            spacing,
		FadeTime:           fade,
		LightIntensity:     100,
		EmissiveMultiplier: 0.5,
	}
}

func TestNewTrailBufferValidation(t *testing.T) {
	tests := []struct {
		name  string
		trail *components.TrailComponent
	}{
		{"空组件", nil},
		{"容量为零", newTestTrail(0, 2, time.Second)},
		{"间距为零", newTestTrail(10, 0, time.Second)},
		{"间距为负", newTestTrail(10, -1, time.Second)},
		{"淡出时间为零", newTestTrail(10, 2, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTrailBuffer(tt.trail); !errors.Is(err, ErrInvalidTrail) {
				t.Errorf("err = %v, want ErrInvalidTrail", err)
			}
		})
	}
}

// 直线运动累积 floor(总距离/间距) 个点
func TestTrailBufferStraightLine(t *testing.T) {
	trail := newTestTrail(1000, 2, time.Hour)
	trail.LastSampled = math32.Vec3(0, 2, 0)
	b, err := NewTrailBuffer(trail)
	if err != nil {
		t.Fatal(err)
	}

	const step = 0.5 // 二进制精确
	now := time.Duration(0)
	var total float32
	for i := 1; i <= 100; i++ {
		now += 16 * time.Millisecond
		total = float32(i) * step
		b.Tick(now, math32.Vec3(total, 2, 0))
	}

	want := int(math.Floor(float64(total) / 2))
	if b.Len() != want {
		t.Errorf("Len = %d, want %d", b.Len(), want)
	}
}

func TestTrailBufferEvictsOldest(t *testing.T) {
	b, _ := NewTrailBuffer(newTestTrail(10, 2, time.Hour))

	now := time.Duration(0)
	for i := 1; i <= 25; i++ {
		now += time.Second
		b.Tick(now, math32.Vec3(float32(i)*2, 0, 0))
		if b.Len() > 10 {
			t.Fatalf("Len = %d exceeds maxPoints", b.Len())
		}
	}

	points := b.Points()
	if len(points) != 10 {
		t.Fatalf("Len = %d, want 10", len(points))
	}
	// FIFO：保留最近的 10 个点，按插入顺序
	if points[0].Position.X != 32 || points[9].Position.X != 50 {
		t.Errorf("retained range = [%v, %v], want [32, 50]", points[0].Position.X, points[9].Position.X)
	}
	for i := 1; i < len(points); i++ {
		if points[i].CreatedAt <= points[i-1].CreatedAt {
			t.Fatal("points must stay in insertion order")
		}
	}
}

func TestTrailBufferFade(t *testing.T) {
	fade := 3000 * time.Millisecond
	b, _ := NewTrailBuffer(newTestTrail(10, 2, fade))

	views := b.Tick(0, math32.Vec3(2, 0, 0))
	if len(views) != 1 || views[0].Opacity != 1 {
		t.Fatalf("fresh point views = %+v, want one point with opacity 1", views)
	}
	if views[0].Emissive != 0.5 || views[0].LightIntensity != 100 {
		t.Errorf("fresh intensities = %+v", views[0])
	}

	// 静止不动：不产生新点，旧点淡出
	views = b.Tick(1500*time.Millisecond, math32.Vec3(2, 0, 0))
	if len(views) != 1 || math.Abs(views[0].Opacity-0.5) > 1e-12 {
		t.Fatalf("half-faded views = %+v, want opacity 0.5", views)
	}
	if math.Abs(views[0].LightIntensity-50) > 1e-9 || math.Abs(views[0].Emissive-0.25) > 1e-12 {
		t.Errorf("half-faded intensities = %+v", views[0])
	}

	// 年龄恰好等于淡出时间即被剪除
	views = b.Tick(fade, math32.Vec3(2, 0, 0))
	if len(views) != 0 || b.Len() != 0 {
		t.Errorf("expired point still present: %+v", views)
	}
}

// 任意轨迹下：点数 ≤ maxPoints，所有点的年龄 < fadeTime，不透明度在 (0, 1]
func TestTrailBufferInvariants(t *testing.T) {
	fade := 700 * time.Millisecond
	b, _ := NewTrailBuffer(newTestTrail(5, 1, fade))

	now := time.Duration(0)
	for i := 0; i < 2000; i++ {
		now += 16 * time.Millisecond
		// 走走停停的折线
		phase := float64(i) * 0.05
		pos := math32.Vec3(float32(10*math.Sin(phase)), 0, float32(i%300)/10)
		views := b.Tick(now, pos)

		if b.Len() > 5 {
			t.Fatalf("tick %d: Len = %d exceeds maxPoints", i, b.Len())
		}
		for _, p := range b.Points() {
			if now-p.CreatedAt >= fade {
				t.Fatalf("tick %d: stale point age %v", i, now-p.CreatedAt)
			}
		}
		for _, v := range views {
			if v.Opacity <= 0 || v.Opacity > 1 {
				t.Fatalf("tick %d: opacity %v out of (0, 1]", i, v.Opacity)
			}
		}
	}
}

func TestTrailSystemUsesSceneClock(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	transform := components.NewTransform(math32.Vec3(0, 2, 0))
	trail := newTestTrail(10, 2, 3*time.Second)
	trail.LastSampled = transform.Position
	ecs.AddComponent(em, id, transform)
	ecs.AddComponent(em, id, trail)

	s := NewTrailSystem(em)
	s.Update(0.5)
	if len(trail.Points) != 0 {
		t.Fatal("no point expected before moving")
	}

	transform.Position = math32.Vec3(3, 2, 0)
	s.Update(0.5)
	if len(trail.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(trail.Points))
	}
	if trail.Points[0].CreatedAt != time.Second {
		t.Errorf("CreatedAt = %v, want 1s", trail.Points[0].CreatedAt)
	}
	if s.Now() != time.Second {
		t.Errorf("Now = %v, want 1s", s.Now())
	}
}
