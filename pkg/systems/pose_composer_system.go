package systems

import (
	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
)

// CarriedObjectPosition 计算方块相对机械臂的位置
//
// 抓取到释放（阶段 3–7）期间方块跟随夹爪：
// gripperWorld − armWorld + GripOffset 按夹爪朝向旋转；
// 其余阶段停在 SideFlag 选择的静置点。
func CarriedObjectPosition(obj *components.CarriedObjectComponent, st components.ArmCycleState,
	armWorld, gripperWorld math32.Vector3, gripperRot math32.Quat) math32.Vector3 {
	if st.CurrentPhase >= components.ArmPhaseGrab {
		if gripperRot.IsNil() {
			gripperRot = identityQuat()
		}
		return gripperWorld.Sub(armWorld).Add(obj.GripOffset.MulQuat(gripperRot))
	}
	if st.SideFlag {
		return obj.RestRight
	}
	return obj.RestLeft
}

// PoseComposerSystem 每帧更新机械臂搬运的方块位置
//
// 依赖 ArmRigSystem 本帧的解算结果；骨架未解算或关节缺失时跳过，方块保持上一帧的位置。
type PoseComposerSystem struct {
	em *ecs.EntityManager
}

// NewPoseComposerSystem 创建方块位置合成系统
func NewPoseComposerSystem(em *ecs.EntityManager) *PoseComposerSystem {
	return &PoseComposerSystem{em: em}
}

// Update 更新所有方块，实体带 TransformComponent 时同步其世界坐标
func (s *PoseComposerSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.CarriedObjectComponent](s.em) {
		obj, _ := ecs.GetComponent[*components.CarriedObjectComponent](s.em, id)
		s.compose(obj)

		if transform, ok := ecs.GetComponent[*components.TransformComponent](s.em, id); ok {
			if world, ok := CarriedObjectWorld(s.em, obj); ok {
				transform.Position = world
			}
		}
	}
}

func (s *PoseComposerSystem) compose(obj *components.CarriedObjectComponent) {
	arm, ok := ecs.GetComponent[*components.ArmComponent](s.em, obj.Arm)
	if !ok {
		return
	}
	rig, ok := ecs.GetComponent[*components.ArmRigComponent](s.em, obj.Arm)
	if !ok || !rig.Resolved {
		return
	}
	armTransform, ok := ecs.GetComponent[*components.TransformComponent](s.em, obj.Arm)
	if !ok {
		return
	}
	gripper, ok := ecs.GetComponent[*components.JointComponent](s.em, rig.Gripper)
	if !ok {
		return
	}

	obj.LocalPosition = CarriedObjectPosition(obj, arm.Cycle,
		armTransform.Position, gripper.WorldPosition, gripper.WorldRotation)
}

// CarriedObjectWorld 返回方块的世界坐标
func CarriedObjectWorld(em *ecs.EntityManager, obj *components.CarriedObjectComponent) (math32.Vector3, bool) {
	armTransform, ok := ecs.GetComponent[*components.TransformComponent](em, obj.Arm)
	if !ok {
		return math32.Vector3{}, false
	}
	rot := armTransform.Rotation
	if rot.IsNil() {
		rot = identityQuat()
	}
	return obj.LocalPosition.MulQuat(rot).Add(armTransform.Position), true
}
