package systems

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// HUD 文字
var HUDLines = []string{
	"Controls",
	"WASD - Move",
	"T - Toggle Trail",
	"H - Toggle HUD",
	"Esc - Close Panel",
	"F11 - Fullscreen",
}

// OverlayPlaceholder 面板没有 URL 时显示的文字
const OverlayPlaceholder = "Select a post to read."

var (
	uiTextColor     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	uiDimTextColor  = color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	uiBoxColor      = color.RGBA{R: 0, G: 0, B: 0, A: 0xb0}
	uiPanelColor    = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xf0}
	uiHeaderColor   = color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	uiButtonColor   = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	uiLabelColor    = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	uiBoxPadding    = 10.0
	uiLineSpacing   = 1.4
	uiLabelLift     = float32(0.5)
	spawnLabelExtra = float32(2)
)

// UIFonts UI 使用的字体
type UIFonts struct {
	Title *text.GoTextFace
	Body  *text.GoTextFace
	Small *text.GoTextFace
}

// UIRenderSystem 绘制锚定在世界坐标上的文字和屏幕空间 UI
//
// 包括光带/出生圈标签、交互提示、操作说明 HUD 和右侧内容面板。
// 必须在 RenderSystem.Draw 之后调用，复用其本帧的投影器。
type UIRenderSystem struct {
	em        *ecs.EntityManager
	projector *utils.Projector
	fonts     UIFonts

	// ShowHUD 是否绘制操作说明
	ShowHUD bool
}

// NewUIRenderSystem 创建 UI 渲染系统
// 字体为 nil 时对应的文字不绘制
func NewUIRenderSystem(em *ecs.EntityManager, projector *utils.Projector, fonts UIFonts) *UIRenderSystem {
	return &UIRenderSystem{
		em:        em,
		projector: projector,
		fonts:     fonts,
		ShowHUD:   true,
	}
}

// Draw 绘制所有 UI
func (s *UIRenderSystem) Draw(screen *ebiten.Image) {
	s.drawStripeLabels(screen)
	s.drawSpawnLabels(screen)

	_, overlay, hasOverlay := ecs.First[*components.OverlayComponent](s.em)
	overlayVisible := hasOverlay && overlay.Visible()
	if !overlayVisible {
		s.drawPrompts(screen)
	}
	if s.ShowHUD {
		s.drawHUD(screen)
	}
	if overlayVisible {
		s.drawOverlay(screen, overlay)
	}
}

func (s *UIRenderSystem) drawStripeLabels(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.StripeComponent](s.em) {
		stripe, _ := ecs.GetComponent[*components.StripeComponent](s.em, id)
		if stripe.Label == "" {
			continue
		}
		pos := stripe.LabelPosition().Add(math32.Vec3(0, uiLabelLift, 0))
		s.drawWorldText(screen, pos, []string{stripe.Label}, s.fonts.Small, uiLabelColor, false)
	}
}

func (s *UIRenderSystem) drawSpawnLabels(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.SpawnRingComponent, *components.TransformComponent](s.em) {
		ring, _ := ecs.GetComponent[*components.SpawnRingComponent](s.em, id)
		if ring.Label == "" {
			continue
		}
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
		pos := transform.Position.Add(math32.Vec3(0, uiLabelLift, ring.Radius+spawnLabelExtra))
		s.drawWorldText(screen, pos, []string{ring.Label}, s.fonts.Small, uiLabelColor, false)
	}
}

func (s *UIRenderSystem) drawPrompts(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.InteractionZoneComponent](s.em) {
		zone, _ := ecs.GetComponent[*components.InteractionZoneComponent](s.em, id)
		if !zone.Armed {
			continue
		}
		anchor, ok := ecs.GetComponent[*components.TransformComponent](s.em, zone.Anchor)
		if !ok {
			continue
		}
		pos := anchor.Position.Add(math32.Vec3(0, zone.PromptHeight, 0))
		s.drawWorldText(screen, pos, PromptLines(zone), s.fonts.Body, uiTextColor, true)
	}
}

// PromptLines 交互提示的文字行
func PromptLines(zone *components.InteractionZoneComponent) []string {
	var lines []string
	if zone.Title != "" {
		lines = append(lines, zone.Title)
	}
	if zone.Hint != "" {
		lines = append(lines, zone.Hint)
	}
	return lines
}

// drawWorldText 在世界坐标 pos 的投影处居中绘制多行文字
func (s *UIRenderSystem) drawWorldText(screen *ebiten.Image, pos math32.Vector3, lines []string, face *text.GoTextFace, clr color.Color, boxed bool) {
	if face == nil || len(lines) == 0 {
		return
	}
	x, y, _, ok := s.projector.Project(pos)
	if !ok {
		return
	}

	lineHeight := face.Size * uiLineSpacing
	width := 0.0
	for _, line := range lines {
		w, _ := text.Measure(line, face, lineHeight)
		width = max(width, w)
	}
	height := lineHeight * float64(len(lines))
	top := y - height/2

	if boxed {
		vector.DrawFilledRect(screen,
			float32(x-width/2-uiBoxPadding), float32(top-uiBoxPadding),
			float32(width+2*uiBoxPadding), float32(height+2*uiBoxPadding),
			uiBoxColor, true)
	}
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, top+float64(i)*lineHeight)
		op.PrimaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, line, face, op)
	}
}

func (s *UIRenderSystem) drawHUD(screen *ebiten.Image) {
	face := s.fonts.Small
	if face == nil {
		return
	}
	lineHeight := face.Size * uiLineSpacing
	width := 0.0
	for _, line := range HUDLines {
		w, _ := text.Measure(line, face, lineHeight)
		width = max(width, w)
	}

	x, y := 20.0, 20.0
	vector.DrawFilledRect(screen, float32(x), float32(y),
		float32(width+2*uiBoxPadding), float32(lineHeight*float64(len(HUDLines))+2*uiBoxPadding),
		uiBoxColor, true)
	for i, line := range HUDLines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+uiBoxPadding, y+uiBoxPadding+float64(i)*lineHeight)
		if i == 0 {
			op.ColorScale.ScaleWithColor(uiTextColor)
		} else {
			op.ColorScale.ScaleWithColor(uiDimTextColor)
		}
		text.Draw(screen, line, face, op)
	}
}

func (s *UIRenderSystem) drawOverlay(screen *ebiten.Image, o *components.OverlayComponent) {
	bounds := screen.Bounds()
	panel, btn := OverlayLayout(float64(bounds.Dx()), float64(bounds.Dy()), o)

	vector.DrawFilledRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), float32(panel.H), uiPanelColor, true)
	vector.DrawFilledRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), OverlayHeaderHeight, uiHeaderColor, true)
	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), uiButtonColor, true)

	if face := s.fonts.Title; face != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(panel.X+OverlayPadding, (OverlayHeaderHeight-face.Size)/2)
		op.ColorScale.ScaleWithColor(uiTextColor)
		text.Draw(screen, o.Title, face, op)
	}
	if face := s.fonts.Small; face != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(btn.X+btn.W/2, btn.Y+(btn.H-face.Size)/2)
		op.PrimaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(uiTextColor)
		text.Draw(screen, "Close", face, op)
	}
	if face := s.fonts.Body; face != nil {
		body := o.URL
		if body == "" {
			body = OverlayPlaceholder
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(panel.X+OverlayPadding, OverlayHeaderHeight+OverlayPadding)
		op.ColorScale.ScaleWithColor(uiDimTextColor)
		text.Draw(screen, body, face, op)
	}
}
