package components

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/ecs"
)

// 机械臂阶段
const (
	ArmPhaseIdle = iota
	ArmPhaseRotateToPickup
	ArmPhaseReachDown
	ArmPhaseGrab
	ArmPhaseLift
	ArmPhaseRotateToPlace
	ArmPhaseLower
	ArmPhaseRelease
)

// ArmPose 机械臂各关节的当前取值
// 只由阶段状态机写入
type ArmPose struct {
	BaseYaw         float64 // 底座绕 Y 轴转角（弧度）
	ShoulderPitch   float64 // 肩关节绕 Z 轴转角
	ElbowPitch      float64 // 肘关节绕 Z 轴转角
	GripperAperture float64 // 夹爪开合 [0.5, 1]，1 为完全张开
}

// ArmMotion 关节运动幅度（弧度）
type ArmMotion struct {
	SwingAngle        float64 // 拾取/放置时底座偏转角
	ShoulderAmplitude float64
	ElbowAmplitude    float64
}

// ArmCycleState 动画循环状态
type ArmCycleState struct {
	CurrentPhase   int
	ElapsedInPhase float64
	SideFlag       bool    // true: 方块在右侧
	LastBaseAngle  float64 // 上一循环结束时的底座角
	IsFirstCycle   bool
}

// ArmComponent 机械臂动画数据
type ArmComponent struct {
	PhaseDurations  []float64
	Motion          ArmMotion
	Cycle           ArmCycleState
	Pose            ArmPose
	CompletedCycles int
}

// NewArmComponent 创建处于首个循环起点的机械臂
func NewArmComponent(durations []float64, motion ArmMotion) *ArmComponent {
	return &ArmComponent{
		PhaseDurations: append([]float64(nil), durations...),
		Motion:         motion,
		Cycle: ArmCycleState{
			SideFlag:     true,
			IsFirstCycle: true,
		},
		Pose: ArmPose{GripperAperture: 1},
	}
}

// JointAxis 关节旋转轴
type JointAxis int

const (
	JointAxisNone JointAxis = iota
	JointAxisY
	JointAxisZ
)

// Vector 返回旋转轴的单位向量
func (a JointAxis) Vector() math32.Vector3 {
	switch a {
	case JointAxisY:
		return math32.Vec3(0, 1, 0)
	case JointAxisZ:
		return math32.Vec3(0, 0, 1)
	}
	return math32.Vector3{}
}

// JointComponent 骨架中的一个关节节点
//
// Parent 为父节点实体：父节点是关节时取其世界变换，否则取其 TransformComponent。
// World* 字段由 ArmRigSystem 每帧解算。
type JointComponent struct {
	Name     string
	Parent   ecs.EntityID
	Offset   math32.Vector3 // 相对父节点的平移
	Axis     JointAxis
	Angle    float32
	Aperture float32 // 夹爪 X 方向缩放

	Length    float32 // 绘制用的连杆长度
	Thickness float32 // 绘制用的连杆粗细（世界单位）
	Color     color.RGBA

	WorldPosition math32.Vector3
	WorldRotation math32.Quat
}

// ArmRigComponent 机械臂骨架的关节引用
type ArmRigComponent struct {
	Base, Shoulder, Elbow, Gripper ecs.EntityID

	// Resolved 本帧关节世界变换是否已解算
	Resolved bool
}

// Joints 按父到子的顺序返回关节实体
func (r *ArmRigComponent) Joints() []ecs.EntityID {
	return []ecs.EntityID{r.Base, r.Shoulder, r.Elbow, r.Gripper}
}

// CarriedObjectComponent 机械臂搬运的方块
type CarriedObjectComponent struct {
	Arm        ecs.EntityID
	RestRight  math32.Vector3 // 臂局部坐标
	RestLeft   math32.Vector3
	GripOffset math32.Vector3 // 夹爪局部坐标下的偏移

	// LocalPosition 相对机械臂的位置，由 PoseComposerSystem 写入
	LocalPosition math32.Vector3
	Size          float32
	Color         color.RGBA
}
