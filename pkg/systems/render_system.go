package systems

import (
	"image/color"
	"math"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 绘制参数
const (
	gridViewExtent   = 150 // 只绘制注视点附近的网格（世界单位）
	ringSegments     = 96
	stripeSegments   = 48
	minStrokeWidth   = 1
	trailGlowRatio   = 2.5 // 光晕半径 / 标记半径
	baseDiskRadius   = 2
	fingerHalfHeight = 0.5
	fingerSpread     = 0.5
)

var (
	stripeBaseColor = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	stripeGlowColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	trailColor      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	baseDiskColor   = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

// Segment 世界坐标中的线段
type Segment struct {
	A, B math32.Vector3
}

// RenderSystem 用透视投影把三维场景画到屏幕上
//
// 绘制顺序（从底到顶）：背景与网格 → 出生圈 → 光带 → 轨迹 → 机械臂 → 方块 → 玩家球体。
// 摄像机取第一个 CameraComponent；没有摄像机时只绘制背景。
type RenderSystem struct {
	em        *ecs.EntityManager
	projector *utils.Projector

	// ShowTrail 是否绘制轨迹标记
	ShowTrail bool
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{
		em:        em,
		projector: utils.NewProjector(1, 1, 60),
		ShowTrail: true,
	}
}

// Projector 返回本帧使用的投影器，供 UI 绘制锚定到世界坐标
func (s *RenderSystem) Projector() *utils.Projector {
	return s.projector
}

// UpdateView 按屏幕尺寸和摄像机状态更新投影器
// 返回是否找到了摄像机
func (s *RenderSystem) UpdateView(screenW, screenH float64) bool {
	s.projector.Width = screenW
	s.projector.Height = screenH

	_, cam, ok := ecs.First[*components.CameraComponent](s.em)
	if !ok {
		return false
	}
	if cam.FOV > 0 {
		s.projector.FOV = cam.FOV
	}
	s.projector.SetView(cam.Position, cam.LookAt)
	return true
}

// Draw 绘制三维场景
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	hasCamera := s.UpdateView(float64(bounds.Dx()), float64(bounds.Dy()))

	_, ground, hasGround := ecs.First[*components.GroundComponent](s.em)
	if hasGround {
		screen.Fill(ground.Background)
	}
	if !hasCamera {
		return
	}

	if hasGround {
		_, cam, _ := ecs.First[*components.CameraComponent](s.em)
		for _, seg := range GridLines(cam.LookAt, ground.Size, ground.GridSpacing, gridViewExtent) {
			s.strokeWorld(screen, seg.A, seg.B, minStrokeWidth, ground.GridColor)
		}
	}

	s.drawSpawnRings(screen)
	s.drawStripes(screen)
	if s.ShowTrail {
		s.drawTrails(screen)
	}
	s.drawArms(screen)
	s.drawCarriedObjects(screen)
	s.drawPlayers(screen)
}

// GridLines 计算地面网格线
//
// 只生成以 center 为中心、边长 2·extent 的窗口内的线，并裁剪到地面范围 [-size/2, size/2]。
// 网格线落在 spacing 的整数倍上，摄像机移动时网格不会跟着滑动。
func GridLines(center math32.Vector3, size, spacing, extent float32) []Segment {
	if !(spacing > 0) || !(size > 0) || !(extent > 0) {
		return nil
	}
	half := size / 2
	minX := math32.Max(-half, center.X-extent)
	maxX := math32.Min(half, center.X+extent)
	minZ := math32.Max(-half, center.Z-extent)
	maxZ := math32.Min(half, center.Z+extent)
	if minX > maxX || minZ > maxZ {
		return nil
	}

	var lines []Segment
	for x := math32.Ceil(minX/spacing) * spacing; x <= maxX; x += spacing {
		lines = append(lines, Segment{A: math32.Vec3(x, 0, minZ), B: math32.Vec3(x, 0, maxZ)})
	}
	for z := math32.Ceil(minZ/spacing) * spacing; z <= maxZ; z += spacing {
		lines = append(lines, Segment{A: math32.Vec3(minX, 0, z), B: math32.Vec3(maxX, 0, z)})
	}
	return lines
}

func (s *RenderSystem) drawSpawnRings(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.SpawnRingComponent, *components.TransformComponent](s.em) {
		ring, _ := ecs.GetComponent[*components.SpawnRingComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)

		center := transform.Position
		prev := ringPoint(center, ring.Radius, 0)
		for i := 1; i <= ringSegments; i++ {
			frac := float64(i) / ringSegments
			next := ringPoint(center, ring.Radius, frac)
			mid := (float64(i) - 0.5) / ringSegments
			intensity := SweepIntensity(mid, ring.Sweep, ring.PulseWidth)
			clr := LerpColor(ring.Color, ring.PulseColor, intensity)
			s.strokeWorld(screen, prev, next, 0.5, clr)
			prev = next
		}
	}
}

// ringPoint 圆周上角度比例 frac 处的点（绕 +Y 逆时针，从 +X 开始）
func ringPoint(center math32.Vector3, radius float32, frac float64) math32.Vector3 {
	angle := frac * 2 * math.Pi
	return center.Add(math32.Vec3(radius*float32(math.Cos(angle)), 0, -radius*float32(math.Sin(angle))))
}

func (s *RenderSystem) drawStripes(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.StripeComponent](s.em) {
		stripe, _ := ecs.GetComponent[*components.StripeComponent](s.em, id)
		d := stripe.End.Sub(stripe.Start)
		for i := 0; i < stripeSegments; i++ {
			u0 := float32(i) / stripeSegments
			u1 := float32(i+1) / stripeSegments
			a := stripe.Start.Add(d.MulScalar(u0))
			b := stripe.Start.Add(d.MulScalar(u1))
			intensity := StripeIntensity(float64(u0+u1)/2, stripe.Pulse, stripe.PulseWidth)
			// 亮度 0.5 为脉冲中心，映射到完全点亮
			clr := LerpColor(stripeBaseColor, stripeGlowColor, intensity*2)
			s.strokeWorld(screen, a, b, stripe.Width, clr)
		}
	}
}

func (s *RenderSystem) drawTrails(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.TrailComponent](s.em) {
		trail, _ := ecs.GetComponent[*components.TrailComponent](s.em, id)
		for _, v := range trail.Views {
			x, y, depth, ok := s.projector.Project(v.Position)
			if !ok {
				continue
			}
			r := float32(s.projector.ScaleAt(depth)) * trail.MarkerRadius
			// 光晕亮度按点光源强度归一化
			glow := math.Min(1, v.LightIntensity/math.Max(trail.LightIntensity, 1)) * 0.25
			vector.DrawFilledCircle(screen, float32(x), float32(y), r*trailGlowRatio, WithAlpha(trailColor, glow), true)
			vector.DrawFilledCircle(screen, float32(x), float32(y), r, WithAlpha(trailColor, v.Opacity), true)
		}
	}
}

func (s *RenderSystem) drawArms(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.ArmRigComponent, *components.TransformComponent](s.em) {
		rig, _ := ecs.GetComponent[*components.ArmRigComponent](s.em, id)
		if !rig.Resolved {
			continue
		}
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)

		// 底座圆盘
		if x, y, depth, ok := s.projector.Project(transform.Position.Add(math32.Vec3(0, 0.5, 0))); ok {
			r := float32(s.projector.ScaleAt(depth)) * baseDiskRadius
			vector.DrawFilledCircle(screen, float32(x), float32(y), r, baseDiskColor, true)
		}

		for _, jid := range []ecs.EntityID{rig.Base, rig.Shoulder, rig.Elbow} {
			j, ok := ecs.GetComponent[*components.JointComponent](s.em, jid)
			if !ok {
				continue
			}
			tip := math32.Vec3(0, j.Length, 0).MulQuat(j.WorldRotation).Add(j.WorldPosition)
			s.strokeWorld(screen, j.WorldPosition, tip, j.Thickness, j.Color)
		}

		if g, ok := ecs.GetComponent[*components.JointComponent](s.em, rig.Gripper); ok {
			for _, seg := range FingerSegments(g) {
				s.strokeWorld(screen, seg.A, seg.B, g.Thickness, g.Color)
			}
		}
	}
}

// FingerSegments 夹爪两根手指的世界坐标线段
// 手指沿夹爪局部 X 轴分开，间距随 Aperture 缩放
func FingerSegments(g *components.JointComponent) [2]Segment {
	var out [2]Segment
	rot := g.WorldRotation
	if rot.IsNil() {
		rot = identityQuat()
	}
	for i, side := range [2]float32{-1, 1} {
		x := side * fingerSpread * g.Aperture
		a := math32.Vec3(x, -fingerHalfHeight, 0).MulQuat(rot).Add(g.WorldPosition)
		b := math32.Vec3(x, fingerHalfHeight, 0).MulQuat(rot).Add(g.WorldPosition)
		out[i] = Segment{A: a, B: b}
	}
	return out
}

func (s *RenderSystem) drawCarriedObjects(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.CarriedObjectComponent, *components.TransformComponent](s.em) {
		obj, _ := ecs.GetComponent[*components.CarriedObjectComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
		x, y, depth, ok := s.projector.Project(transform.Position)
		if !ok {
			continue
		}
		side := float32(s.projector.ScaleAt(depth)) * obj.Size
		vector.DrawFilledRect(screen, float32(x)-side/2, float32(y)-side/2, side, side, obj.Color, true)
	}
}

func (s *RenderSystem) drawPlayers(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith3[*components.PlayerComponent, *components.BodyComponent, *components.TransformComponent](s.em) {
		player, _ := ecs.GetComponent[*components.PlayerComponent](s.em, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)

		x, y, depth, ok := s.projector.Project(transform.Position)
		if !ok {
			continue
		}
		r := float32(s.projector.ScaleAt(depth)) * body.Radius
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, player.Color, true)

		// 滚动标记：球面上随旋转移动的一点，只在朝向摄像机的半球可见
		rot := transform.Rotation
		if rot.IsNil() {
			rot = identityQuat()
		}
		marker := math32.Vec3(0, body.Radius, 0).MulQuat(rot).Add(transform.Position)
		if mx, my, mdepth, ok := s.projector.Project(marker); ok && mdepth < depth {
			vector.DrawFilledCircle(screen, float32(mx), float32(my), r*0.15, color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}, true)
		}
	}
}

// strokeWorld 画一条世界坐标线段，线宽按中点深度换算为像素
func (s *RenderSystem) strokeWorld(screen *ebiten.Image, a, b math32.Vector3, width float32, clr color.Color) {
	x0, y0, x1, y1, ok := s.projector.ProjectSegment(a, b)
	if !ok {
		return
	}
	px := float32(minStrokeWidth)
	if _, _, depth, ok := s.projector.Project(a.Add(b).MulScalar(0.5)); ok {
		px = math32.Max(px, float32(s.projector.ScaleAt(depth))*width)
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), px, clr, true)
}

// LerpColor 在两种颜色间线性插值，t 限制在 [0, 1]
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = utils.Clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(utils.Lerp(float64(x), float64(y), t)))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// WithAlpha 返回按 alpha 缩放后的预乘颜色
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	alpha = utils.Clamp01(alpha)
	scale := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * alpha))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}
