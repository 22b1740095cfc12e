package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultSceneConfigPath 内置场景配置的路径
const DefaultSceneConfigPath = "data/scene.yaml"

// ArmPhaseCount 机械臂动画循环的阶段数
// 0=待机, 1=转向拾取, 2=下探, 3=抓取, 4=抬起, 5=转向放置, 6=下放, 7=释放
const ArmPhaseCount = 8

// ErrInvalidConfig 场景配置校验失败
var ErrInvalidConfig = errors.New("invalid scene config")

// Vec3 YAML 中的三维坐标，写作 [x, y, z]
type Vec3 [3]float32

// Vector3 转换为 math32.Vector3
func (v Vec3) Vector3() math32.Vector3 {
	return math32.Vec3(v[0], v[1], v[2])
}

// SceneConfig 场景配置文件的顶层结构
//
// 配置文件位置: data/scene.yaml（内置），可用 -config 指定磁盘上的文件覆盖。
// 未出现在文件中的字段保留 DefaultSceneConfig 的取值。
type SceneConfig struct {
	World       WorldConfig       `yaml:"world"`
	Camera      CameraConfig      `yaml:"camera"`
	Player      PlayerConfig      `yaml:"player"`
	Trail       TrailConfig       `yaml:"trail"`
	Arm         ArmConfig         `yaml:"arm"`
	Interaction InteractionConfig `yaml:"interaction"`
	Overlay     OverlayConfig     `yaml:"overlay"`
	SpawnRing   SpawnRingConfig   `yaml:"spawnRing"`
	Stripes     []StripeConfig    `yaml:"stripes"`
}

// WorldConfig 地面与全局环境
type WorldConfig struct {
	Size        float32 `yaml:"size"`        // 地面边长
	GridSpacing float32 `yaml:"gridSpacing"` // 地面网格线间距
	Gravity     float32 `yaml:"gravity"`     // 重力加速度（负值向下）
	Background  string  `yaml:"background"`  // 背景色 #rrggbb
	GridColor   string  `yaml:"gridColor"`   // 网格线颜色
}

// CameraConfig 跟随摄像机
type CameraConfig struct {
	Start      Vec3    `yaml:"start"`      // 初始位置
	Offset     Vec3    `yaml:"offset"`     // 相对玩家的目标偏移
	LerpFactor float32 `yaml:"lerpFactor"` // 每帧插值系数 (0, 1]
	FOV        float64 `yaml:"fov"`        // 垂直视野（度）
}

// PlayerConfig 玩家球体
type PlayerConfig struct {
	Start               Vec3    `yaml:"start"`
	Radius              float32 `yaml:"radius"`
	Speed               float32 `yaml:"speed"`               // 水平速度（单位/秒）
	RollSpeedMultiplier float32 `yaml:"rollSpeedMultiplier"` // 滚动角速度系数
	Color               string  `yaml:"color"`
}

// TrailConfig 玩家轨迹
type TrailConfig struct {
	MaxPoints          int     `yaml:"maxPoints"`
	Spacing            float32 `yaml:"spacing"`    // 采样间距（世界单位）
	FadeTimeMs         int     `yaml:"fadeTimeMs"` // 完全淡出所需毫秒数
	LightIntensity     float64 `yaml:"lightIntensity"`
	EmissiveMultiplier float64 `yaml:"emissiveMultiplier"`
	MarkerSizeRatio    float32 `yaml:"markerSizeRatio"` // 标记半径 / 球体半径
}

// ArmConfig 机械臂展品
type ArmConfig struct {
	Position          Vec3      `yaml:"position"`
	PhaseDurations    []float64 `yaml:"phaseDurations"`    // 8 个阶段的持续时间（秒）
	SwingFraction     float64   `yaml:"swingFraction"`     // 底座左右摆动角 = swingFraction·π
	ShoulderAmplitude float64   `yaml:"shoulderAmplitude"` // 肩关节最大角 = amplitude·π
	ElbowAmplitude    float64   `yaml:"elbowAmplitude"`    // 肘关节最大角 = amplitude·π
	RestRight         Vec3      `yaml:"restRight"`         // 右侧静置点（臂局部坐标）
	RestLeft          Vec3      `yaml:"restLeft"`          // 左侧静置点
	GripOffset        Vec3      `yaml:"gripOffset"`        // 方块相对夹爪的局部偏移
}

// InteractionConfig 靠近展品时的交互
type InteractionConfig struct {
	Radius   float32 `yaml:"radius"`
	Key      string  `yaml:"key"` // 单个字母
	Title    string  `yaml:"title"`
	Hint     string  `yaml:"hint"`
	CloseKey string  `yaml:"closeKey"`
	Chime    bool    `yaml:"chime"` // 触发时是否播放提示音
}

// OverlayConfig 右侧滑入面板
type OverlayConfig struct {
	Title        string  `yaml:"title"`
	URL          string  `yaml:"url"`
	WidthRatio   float64 `yaml:"widthRatio"`   // 面板宽度 / 屏幕宽度
	MaxWidth     float64 `yaml:"maxWidth"`     // 面板最大宽度（像素）
	SlideSeconds float64 `yaml:"slideSeconds"` // 滑入/滑出时长
}

// SpawnRingConfig 出生点圆环
type SpawnRingConfig struct {
	Radius     float32 `yaml:"radius"`
	PulseSpeed float64 `yaml:"pulseSpeed"` // 扫光每秒转数
	PulseWidth float64 `yaml:"pulseWidth"` // 扫光角宽度（圈的比例）
	Label      string  `yaml:"label"`
	Color      string  `yaml:"color"`
	PulseColor string  `yaml:"pulseColor"`
}

// StripeConfig 导航光带
type StripeConfig struct {
	Start      Vec3    `yaml:"start"`
	End        Vec3    `yaml:"end"`
	Width      float32 `yaml:"width"`
	Label      string  `yaml:"label"`
	PulseSpeed float64 `yaml:"pulseSpeed"`
	PulseWidth float64 `yaml:"pulseWidth"`
	// PulsePhase 相位延迟（圈）：共享时钟走过 PulsePhase/PulseSpeed 秒时脉冲回到起点
	// 偏移量按 offset = -PulsePhase / PulseSpeed 计算
	PulsePhase float64 `yaml:"pulsePhase"`
}

// DefaultSceneConfig 返回默认场景配置
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		World: WorldConfig{
			Size:        1000,
			GridSpacing: 10,
			Gravity:     -20,
			Background:  "#000000",
			GridColor:   "#1a1a1a",
		},
		Camera: CameraConfig{
			Start:      Vec3{0, 15, 20},
			Offset:     Vec3{0, 20, 50},
			LerpFactor: 0.1,
			FOV:        60,
		},
		Player: PlayerConfig{
			Start:               Vec3{0, 2, 0},
			Radius:              2,
			Speed:               20,
			RollSpeedMultiplier: 0.01,
			Color:               "#cccccc",
		},
		Trail: TrailConfig{
			MaxPoints:          10,
			Spacing:            2,
			FadeTimeMs:         3000,
			LightIntensity:     100,
			EmissiveMultiplier: 0.5,
			MarkerSizeRatio:    0.5,
		},
		Arm: ArmConfig{
			Position:          Vec3{20, 0, 20},
			PhaseDurations:    []float64{0.5, 1, 1, 0.3, 1, 1.5, 1, 0.3},
			SwingFraction:     0.4,
			ShoulderAmplitude: 0.5,
			ElbowAmplitude:    0.1,
			RestRight:         Vec3{-1.8, 0.4, 5.5},
			RestLeft:          Vec3{-1.8, 0.4, -5.5},
			GripOffset:        Vec3{0, -0.15, 0},
		},
		Interaction: InteractionConfig{
			Radius:   15,
			Key:      "r",
			Title:    "RoboArm Control",
			Hint:     "Press R to Open Blog",
			CloseKey: "escape",
			Chime:    true,
		},
		Overlay: OverlayConfig{
			Title:        "Blog",
			WidthRatio:   0.8,
			MaxWidth:     800,
			SlideSeconds: 0.4,
		},
		SpawnRing: SpawnRingConfig{
			Radius:     10,
			PulseSpeed: 0.5,
			PulseWidth: 0.05,
			Color:      "#000000",
			PulseColor: "#ffffff",
		},
	}
}

// LoadSceneConfig 加载内置（embedded）场景配置
//
// 参数:
//   - path: 配置文件路径（如 "data/scene.yaml"）
//
// 返回:
//   - *SceneConfig: 加载并校验后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config %s: %w", path, err)
	}
	return ParseSceneConfig(data)
}

// LoadSceneConfigFile 从磁盘加载场景配置（-config 参数）
func LoadSceneConfigFile(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config %s: %w", path, err)
	}
	return ParseSceneConfig(data)
}

// ParseSceneConfig 解析 YAML 数据，在默认配置之上覆盖并校验
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	cfg := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 验证配置有效性
//
// 检查项：
//   - 机械臂阶段表长度为 8 且每项 > 0
//   - 轨迹容量、间距、淡出时间为正
//   - 摄像机插值系数在 (0, 1]
//   - 交互半径为正，交互键为单个字母
//   - 颜色字段为合法的 #rrggbb
func (c *SceneConfig) Validate() error {
	if len(c.Arm.PhaseDurations) != ArmPhaseCount {
		return fmt.Errorf("%w: arm.phaseDurations needs %d entries, got %d",
			ErrInvalidConfig, ArmPhaseCount, len(c.Arm.PhaseDurations))
	}
	for i, d := range c.Arm.PhaseDurations {
		if !(d > 0) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: arm.phaseDurations[%d] must be > 0, got %v", ErrInvalidConfig, i, d)
		}
	}
	if c.Trail.MaxPoints <= 0 {
		return fmt.Errorf("%w: trail.maxPoints must be > 0, got %d", ErrInvalidConfig, c.Trail.MaxPoints)
	}
	if !(c.Trail.Spacing > 0) {
		return fmt.Errorf("%w: trail.spacing must be > 0, got %v", ErrInvalidConfig, c.Trail.Spacing)
	}
	if c.Trail.FadeTimeMs <= 0 {
		return fmt.Errorf("%w: trail.fadeTimeMs must be > 0, got %d", ErrInvalidConfig, c.Trail.FadeTimeMs)
	}
	if !(c.Camera.LerpFactor > 0 && c.Camera.LerpFactor <= 1) {
		return fmt.Errorf("%w: camera.lerpFactor must be in (0, 1], got %v", ErrInvalidConfig, c.Camera.LerpFactor)
	}
	if !(c.Camera.FOV > 0 && c.Camera.FOV < 180) {
		return fmt.Errorf("%w: camera.fov must be in (0, 180), got %v", ErrInvalidConfig, c.Camera.FOV)
	}
	if !(c.Player.Radius > 0) {
		return fmt.Errorf("%w: player.radius must be > 0, got %v", ErrInvalidConfig, c.Player.Radius)
	}
	if !(c.Interaction.Radius > 0) {
		return fmt.Errorf("%w: interaction.radius must be > 0, got %v", ErrInvalidConfig, c.Interaction.Radius)
	}
	if len(c.Interaction.Key) != 1 {
		return fmt.Errorf("%w: interaction.key must be a single letter, got %q", ErrInvalidConfig, c.Interaction.Key)
	}
	if c.Overlay.SlideSeconds < 0 {
		return fmt.Errorf("%w: overlay.slideSeconds must be >= 0, got %v", ErrInvalidConfig, c.Overlay.SlideSeconds)
	}
	for i, s := range c.Stripes {
		if s.Start == s.End {
			return fmt.Errorf("%w: stripes[%d] has zero length", ErrInvalidConfig, i)
		}
		if !(s.Width > 0) {
			return fmt.Errorf("%w: stripes[%d].width must be > 0", ErrInvalidConfig, i)
		}
	}

	colors := map[string]string{
		"world.background":     c.World.Background,
		"world.gridColor":      c.World.GridColor,
		"player.color":         c.Player.Color,
		"spawnRing.color":      c.SpawnRing.Color,
		"spawnRing.pulseColor": c.SpawnRing.PulseColor,
	}
	for field, value := range colors {
		if _, err := ParseHexColor(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
		}
	}
	return nil
}

// ParseHexColor 解析 "#rrggbb" 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustColor 解析已校验过的颜色，失败时返回白色
func MustColor(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return c
}
