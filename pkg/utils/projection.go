package utils

import (
	"math"

	"cogentcore.org/core/math32"
)

// DefaultNearPlane 近裁剪面距离（世界单位）
const DefaultNearPlane = 0.1

// Projector 透视投影器
//
// 将世界坐标投影到屏幕坐标（左上角为原点，Y 轴向下）。
// 每帧调用 SetView 更新摄像机位置和注视点，然后对各点调用 Project。
type Projector struct {
	Width, Height float64 // 屏幕尺寸（像素）
	FOV           float64 // 垂直视野（度）
	Near          float64 // 近裁剪面

	eye                math32.Vector3
	right, up, forward math32.Vector3
	focal              float64
	viewReady          bool
}

// NewProjector 创建透视投影器
func NewProjector(width, height, fovDegrees float64) *Projector {
	return &Projector{
		Width:  width,
		Height: height,
		FOV:    fovDegrees,
		Near:   DefaultNearPlane,
	}
}

// SetView 设置摄像机位置与注视点
// 当 eye 与 target 重合时视图无效，Project 将返回 false
func (p *Projector) SetView(eye, target math32.Vector3) {
	p.eye = eye
	dir := target.Sub(eye)
	if dir.Length() < 1e-6 {
		p.viewReady = false
		return
	}
	p.forward = dir.Normal()

	worldUp := math32.Vec3(0, 1, 0)
	right := p.forward.Cross(worldUp)
	if right.Length() < 1e-6 {
		// 视线与世界上方向平行（正俯视），改用 -Z 作为参考
		right = p.forward.Cross(math32.Vec3(0, 0, -1))
	}
	p.right = right.Normal()
	p.up = p.right.Cross(p.forward)
	p.focal = (p.Height / 2) / math.Tan(p.FOV*math.Pi/360)
	p.viewReady = true
}

// Project 将世界坐标投影到屏幕
//
// 返回:
//   - x, y: 屏幕坐标
//   - depth: 沿视线方向的距离
//   - ok: 点位于近裁剪面之后且视图有效时为 true
func (p *Projector) Project(world math32.Vector3) (x, y, depth float64, ok bool) {
	if !p.viewReady {
		return 0, 0, 0, false
	}
	d := world.Sub(p.eye)
	depth = float64(d.Dot(p.forward))
	if depth <= p.Near {
		return 0, 0, depth, false
	}
	vx := float64(d.Dot(p.right))
	vy := float64(d.Dot(p.up))
	x = p.Width/2 + vx/depth*p.focal
	y = p.Height/2 - vy/depth*p.focal
	return x, y, depth, true
}

// ProjectSegment 投影线段，先按近裁剪面裁掉摄像机后方的部分
// 整条线段都在近裁剪面之前时返回 ok=false
func (p *Projector) ProjectSegment(a, b math32.Vector3) (x0, y0, x1, y1 float64, ok bool) {
	if !p.viewReady {
		return 0, 0, 0, 0, false
	}
	da := float64(a.Sub(p.eye).Dot(p.forward))
	db := float64(b.Sub(p.eye).Dot(p.forward))
	near := p.Near * 1.01
	if da <= near && db <= near {
		return 0, 0, 0, 0, false
	}
	if da < near {
		a = clipToDepth(a, b, da, db, near)
	} else if db < near {
		b = clipToDepth(b, a, db, da, near)
	}

	x0, y0, _, okA := p.Project(a)
	x1, y1, _, okB := p.Project(b)
	return x0, y0, x1, y1, okA && okB
}

// clipToDepth 沿 from→to 移动 from，直到深度等于 near
func clipToDepth(from, to math32.Vector3, dFrom, dTo, near float64) math32.Vector3 {
	t := (near - dFrom) / (dTo - dFrom)
	return from.Add(to.Sub(from).MulScalar(float32(t)))
}

// ScaleAt 返回给定深度处 1 个世界单位对应的像素数
func (p *Projector) ScaleAt(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return p.focal / depth
}
