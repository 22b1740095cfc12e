package entities

import (
	"fmt"
	"image/color"
	"math"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/systems"
)

// 机械臂几何（臂局部坐标）
var (
	armBaseOffset     = math32.Vec3(0, 1, 0) // 底座转台
	armShoulderOffset = math32.Vec3(0, 1, 0)
	armElbowOffset    = math32.Vec3(0, 3, 0)
	armGripperOffset  = math32.Vec3(0, 3, 0)
)

// 提示文字的高度（臂局部坐标）
const armPromptHeight = 8

// RobotArm 机械臂展品包含的实体
type RobotArm struct {
	ID   ecs.EntityID // 根实体：Transform + Arm + ArmRig
	Rig  *components.ArmRigComponent
	Cube ecs.EntityID
	Zone ecs.EntityID
}

// NewRobotArmEntity 创建机械臂展品
//
// 包括根实体、四个关节（底座 → 肩 → 肘 → 夹爪）、被搬运的方块和交互区域。
// 阶段表在这里校验，非法时不创建任何实体。
func NewRobotArmEntity(em *ecs.EntityManager, arm config.ArmConfig, interaction config.InteractionConfig) (*RobotArm, error) {
	if err := systems.ValidatePhaseTable(arm.PhaseDurations); err != nil {
		return nil, fmt.Errorf("robot arm: %w", err)
	}
	if !(interaction.Radius > 0) {
		return nil, fmt.Errorf("robot arm: %w: interaction radius %v", systems.ErrInvalidRadius, interaction.Radius)
	}

	motion := components.ArmMotion{
		SwingAngle:        arm.SwingFraction * math.Pi,
		ShoulderAmplitude: arm.ShoulderAmplitude * math.Pi,
		ElbowAmplitude:    arm.ElbowAmplitude * math.Pi,
	}

	result := &RobotArm{ID: em.CreateEntity(), Rig: &components.ArmRigComponent{}}
	em.AddComponent(result.ID, components.NewTransform(arm.Position.Vector3()))
	em.AddComponent(result.ID, components.NewArmComponent(arm.PhaseDurations, motion))

	joint := func(name string, parent ecs.EntityID, offset math32.Vector3, axis components.JointAxis, length, thickness float32, clr color.RGBA) ecs.EntityID {
		id := em.CreateEntity()
		em.AddComponent(id, &components.JointComponent{
			Name:      name,
			Parent:    parent,
			Offset:    offset,
			Axis:      axis,
			Aperture:  1,
			Length:    length,
			Thickness: thickness,
			Color:     clr,
		})
		return id
	}
	result.Rig.Base = joint("base", result.ID, armBaseOffset, components.JointAxisY, armShoulderOffset.Y, 1.2, gray(0x88))
	result.Rig.Shoulder = joint("shoulder", result.Rig.Base, armShoulderOffset, components.JointAxisZ, armElbowOffset.Y, 0.8, gray(0xaa))
	result.Rig.Elbow = joint("elbow", result.Rig.Shoulder, armElbowOffset, components.JointAxisZ, armGripperOffset.Y, 0.6, gray(0xbb))
	result.Rig.Gripper = joint("gripper", result.Rig.Elbow, armGripperOffset, components.JointAxisNone, 1, 0.3, gray(0xcc))
	em.AddComponent(result.ID, result.Rig)

	result.Cube = em.CreateEntity()
	rest := arm.RestRight.Vector3()
	em.AddComponent(result.Cube, components.NewTransform(arm.Position.Vector3().Add(rest)))
	em.AddComponent(result.Cube, &components.CarriedObjectComponent{
		Arm:           result.ID,
		RestRight:     rest,
		RestLeft:      arm.RestLeft.Vector3(),
		GripOffset:    arm.GripOffset.Vector3(),
		LocalPosition: rest,
		Size:          1,
		Color:         gray(0xff),
	})

	result.Zone = em.CreateEntity()
	em.AddComponent(result.Zone, &components.InteractionZoneComponent{
		Anchor: result.ID,
		Radius: interaction.Radius,
		Key:    interaction.Key,
		Title:  interaction.Title,
		Hint:   interaction.Hint,

		PromptHeight: armPromptHeight,
	})

	return result, nil
}

func gray(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}
