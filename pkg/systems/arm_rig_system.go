package systems

import (
	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
)

// identityQuat 单位四元数
func identityQuat() math32.Quat {
	return math32.NewQuat(0, 0, 0, 1)
}

// ComposeTransform 正向运动学合成：子节点世界变换 = 父节点世界变换 ∘ 子节点局部变换
//
// 旋转先应用子节点自身，再应用父节点；平移按父节点朝向旋转后叠加到父节点位置。
func ComposeTransform(parentPos math32.Vector3, parentRot math32.Quat, localPos math32.Vector3, localRot math32.Quat) (math32.Vector3, math32.Quat) {
	if parentRot.IsNil() {
		parentRot = identityQuat()
	}
	if localRot.IsNil() {
		localRot = identityQuat()
	}
	pos := localPos.MulQuat(parentRot).Add(parentPos)
	rot := parentRot.Mul(localRot)
	return pos, rot
}

// ArmRigSystem 把机械臂姿态写入关节，并解算每个关节的世界变换
//
// 必须在 ArmAnimationSystem 之后、PoseComposerSystem 之前运行。
type ArmRigSystem struct {
	em *ecs.EntityManager
}

// NewArmRigSystem 创建机械臂骨架系统
func NewArmRigSystem(em *ecs.EntityManager) *ArmRigSystem {
	return &ArmRigSystem{em: em}
}

// Update 应用姿态并解算骨架
// 有关节缺失的骨架本帧标记为未解算
func (s *ArmRigSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.ArmComponent, *components.ArmRigComponent](s.em) {
		arm, _ := ecs.GetComponent[*components.ArmComponent](s.em, id)
		rig, _ := ecs.GetComponent[*components.ArmRigComponent](s.em, id)
		rig.Resolved = false

		s.applyPose(rig, arm.Pose)
		rig.Resolved = s.resolve(rig)
	}
}

func (s *ArmRigSystem) applyPose(rig *components.ArmRigComponent, pose components.ArmPose) {
	if j, ok := ecs.GetComponent[*components.JointComponent](s.em, rig.Base); ok {
		j.Angle = float32(pose.BaseYaw)
	}
	if j, ok := ecs.GetComponent[*components.JointComponent](s.em, rig.Shoulder); ok {
		j.Angle = float32(pose.ShoulderPitch)
	}
	if j, ok := ecs.GetComponent[*components.JointComponent](s.em, rig.Elbow); ok {
		j.Angle = float32(pose.ElbowPitch)
	}
	if j, ok := ecs.GetComponent[*components.JointComponent](s.em, rig.Gripper); ok {
		j.Aperture = float32(pose.GripperAperture)
	}
}

// resolve 自根向叶依次解算
func (s *ArmRigSystem) resolve(rig *components.ArmRigComponent) bool {
	for _, jointID := range rig.Joints() {
		joint, ok := ecs.GetComponent[*components.JointComponent](s.em, jointID)
		if !ok {
			return false
		}
		parentPos, parentRot, ok := s.worldOf(joint.Parent)
		if !ok {
			return false
		}
		local := identityQuat()
		if joint.Axis != components.JointAxisNone {
			local = math32.NewQuatAxisAngle(joint.Axis.Vector(), joint.Angle)
		}
		joint.WorldPosition, joint.WorldRotation = ComposeTransform(parentPos, parentRot, joint.Offset, local)
	}
	return true
}

// worldOf 返回节点的世界变换：关节取解算结果，其他实体取 TransformComponent
func (s *ArmRigSystem) worldOf(id ecs.EntityID) (math32.Vector3, math32.Quat, bool) {
	if j, ok := ecs.GetComponent[*components.JointComponent](s.em, id); ok {
		return j.WorldPosition, j.WorldRotation, true
	}
	if t, ok := ecs.GetComponent[*components.TransformComponent](s.em, id); ok {
		return t.Position, t.Rotation, true
	}
	return math32.Vector3{}, math32.Quat{}, false
}
