package components

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// StripeComponent 导航光带：一条带脉冲扫光的地面光带
type StripeComponent struct {
	Start, End math32.Vector3
	Width      float32
	Label      string
	PulseSpeed float64 // 每秒扫过的圈数
	PulseWidth float64 // 脉冲宽度（光带长度的比例）
	Offset     float64 // 时间偏移（秒）

	// Pulse 当前脉冲位置 [0, 1)，由 PulseSystem 写入
	Pulse float64
}

// Midpoint 光带中点
func (s *StripeComponent) Midpoint() math32.Vector3 {
	return s.Start.Add(s.End).MulScalar(0.5)
}

// Length 光带长度
func (s *StripeComponent) Length() float32 {
	return s.End.Sub(s.Start).Length()
}

// Heading 光带在 XZ 平面上的朝向 atan2(dz, dx)
func (s *StripeComponent) Heading() float32 {
	d := s.End.Sub(s.Start)
	return math32.Atan2(d.Z, d.X)
}

// LabelPosition 标签随脉冲移动：从中点沿光带偏移 (pulse-0.5)*length
func (s *StripeComponent) LabelPosition() math32.Vector3 {
	d := s.End.Sub(s.Start)
	return s.Midpoint().Add(d.MulScalar(float32(s.Pulse - 0.5)))
}

// SpawnRingComponent 出生点圆环和角向扫光
type SpawnRingComponent struct {
	Radius     float32
	PulseSpeed float64
	PulseWidth float64
	Label      string
	Color      color.RGBA
	PulseColor color.RGBA

	// Sweep 扫光当前角度位置 [0, 1)
	Sweep float64
}
