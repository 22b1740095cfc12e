package systems

import (
	"math"

	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/utils"
)

// PeriodicSignal 周期信号发生器
//
// 累计时间单调增加且从不清零，不同元素通过各自的 offset 共享同一个相位。
type PeriodicSignal struct {
	elapsed float64
}

// Tick 累计时间，非正的 deltaTime 被忽略
func (p *PeriodicSignal) Tick(deltaTime float64) {
	if deltaTime > 0 {
		p.elapsed += deltaTime
	}
}

// Elapsed 返回累计时间（秒）
func (p *PeriodicSignal) Elapsed() float64 {
	return p.elapsed
}

// ValueAt 返回 frac((t+offset)*speed)，结果在 [0, 1)
// speed 为 0 时恒为 0
func (p *PeriodicSignal) ValueAt(speed, offset float64) float64 {
	if speed == 0 {
		return 0
	}
	return utils.Fract((p.elapsed + offset) * speed)
}

// OffsetFor 计算使信号在累计时间为 targetFraction/speed 的整数倍处归零的偏移
func OffsetFor(targetFraction, speed float64) float64 {
	if speed == 0 {
		return 0
	}
	return -targetFraction / speed
}

// PulseSystem 驱动导航光带的脉冲和出生点圆环的扫光
type PulseSystem struct {
	em     *ecs.EntityManager
	signal PeriodicSignal
}

// NewPulseSystem 创建脉冲系统
func NewPulseSystem(em *ecs.EntityManager) *PulseSystem {
	return &PulseSystem{em: em}
}

// Signal 返回共享的周期信号
func (s *PulseSystem) Signal() *PeriodicSignal {
	return &s.signal
}

// Update 推进共享时钟并刷新所有光带和圆环的脉冲位置
func (s *PulseSystem) Update(deltaTime float64) {
	s.signal.Tick(deltaTime)

	for _, id := range ecs.GetEntitiesWith1[*components.StripeComponent](s.em) {
		stripe, ok := ecs.GetComponent[*components.StripeComponent](s.em, id)
		if !ok {
			continue
		}
		stripe.Pulse = s.signal.ValueAt(stripe.PulseSpeed, stripe.Offset)
	}

	for _, id := range ecs.GetEntitiesWith1[*components.SpawnRingComponent](s.em) {
		ring, ok := ecs.GetComponent[*components.SpawnRingComponent](s.em, id)
		if !ok {
			continue
		}
		ring.Sweep = s.signal.ValueAt(ring.PulseSpeed, 0)
	}
}

// StripeIntensity 光带上沿长度比例 u 处的脉冲亮度
// 脉冲按 pulseWidth 平滑衰减，最亮为 0.5
func StripeIntensity(u, pulse, pulseWidth float64) float64 {
	return utils.SmoothStep(pulseWidth, 0, math.Abs(u-pulse)) * 0.5
}

// SweepIntensity 圆环上角度比例 angle ∈ [0,1) 处的扫光亮度
// 距离按圆周回绕计算
func SweepIntensity(angle, sweep, pulseWidth float64) float64 {
	d := math.Abs(utils.Fract(angle) - sweep)
	if d > 0.5 {
		d = 1 - d
	}
	return utils.SmoothStep(pulseWidth, 0, d)
}
