package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/utils"
)

// ArmPhaseCount 机械臂一个动画循环的阶段数
const ArmPhaseCount = 8

// ValidatePhaseTable 检查阶段表：长度为 8，每项为有限正数
func ValidatePhaseTable(durations []float64) error {
	if len(durations) != ArmPhaseCount {
		return fmt.Errorf("%w: need %d phases, got %d", ErrInvalidPhaseTable, ArmPhaseCount, len(durations))
	}
	for i, d := range durations {
		if !(d > 0) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: phase %d has duration %v", ErrInvalidPhaseTable, i, d)
		}
	}
	return nil
}

// ArmPhaseMachine 机械臂阶段状态机
//
// 状态保存在 ArmComponent 中，状态机只负责推进。
// 循环：待机 → 转向拾取 → 下探 → 抓取 → 抬起 → 转向放置 → 下放 → 释放。
type ArmPhaseMachine struct {
	arm *components.ArmComponent
}

// NewArmPhaseMachine 为机械臂组件创建状态机，并按当前状态计算初始姿态
func NewArmPhaseMachine(arm *components.ArmComponent) (*ArmPhaseMachine, error) {
	if arm == nil {
		return nil, fmt.Errorf("%w: nil arm component", ErrInvalidPhaseTable)
	}
	if err := ValidatePhaseTable(arm.PhaseDurations); err != nil {
		return nil, err
	}
	if arm.Cycle.CurrentPhase < 0 || arm.Cycle.CurrentPhase >= ArmPhaseCount {
		return nil, fmt.Errorf("%w: current phase %d out of range", ErrInvalidPhaseTable, arm.Cycle.CurrentPhase)
	}
	m := &ArmPhaseMachine{arm: arm}
	arm.Pose = ArmPoseAt(arm.Motion, arm.Cycle, m.eased())
	return m, nil
}

// State 返回当前循环状态
func (m *ArmPhaseMachine) State() components.ArmCycleState {
	return m.arm.Cycle
}

// Pose 返回当前姿态
func (m *ArmPhaseMachine) Pose() components.ArmPose {
	return m.arm.Pose
}

// Tick 推进状态机
//
// 阶段内时间超过该阶段时长时清零并进入下一阶段（超出部分不带入下一阶段）。
// 最后一个阶段结束时记录底座角、切换方块所在侧，并返回 completedCycle=true。
// deltaTime ≤ 0 不推进，直接返回当前姿态。
func (m *ArmPhaseMachine) Tick(deltaTime float64) (pose components.ArmPose, completedCycle bool) {
	if !(deltaTime > 0) {
		return m.arm.Pose, false
	}

	st := &m.arm.Cycle
	st.ElapsedInPhase += deltaTime
	if st.ElapsedInPhase > m.arm.PhaseDurations[st.CurrentPhase] {
		st.ElapsedInPhase = 0
		if st.CurrentPhase == len(m.arm.PhaseDurations)-1 {
			st.LastBaseAngle = m.arm.Pose.BaseYaw
			st.SideFlag = !st.SideFlag
			st.IsFirstCycle = false
			st.CurrentPhase = 0
			m.arm.CompletedCycles++
			completedCycle = true
		} else {
			st.CurrentPhase++
		}
	}

	m.arm.Pose = ArmPoseAt(m.arm.Motion, *st, m.eased())
	return m.arm.Pose, completedCycle
}

func (m *ArmPhaseMachine) eased() float64 {
	st := m.arm.Cycle
	t := st.ElapsedInPhase / m.arm.PhaseDurations[st.CurrentPhase]
	return utils.EaseOutSine(t)
}

// ArmPoseAt 由阶段、缓动进度和循环状态计算关节取值
// 姿态完全由 (CurrentPhase, eased, SideFlag, LastBaseAngle, IsFirstCycle) 决定
func ArmPoseAt(motion components.ArmMotion, st components.ArmCycleState, eased float64) components.ArmPose {
	pickup := -motion.SwingAngle
	if st.SideFlag {
		pickup = motion.SwingAngle
	}
	place := -pickup

	start := st.LastBaseAngle
	if st.IsFirstCycle {
		start = 0
	}

	pose := components.ArmPose{GripperAperture: 1}

	switch st.CurrentPhase {
	case components.ArmPhaseIdle:
		pose.BaseYaw = start
	case components.ArmPhaseRotateToPickup:
		pose.BaseYaw = utils.Lerp(start, pickup, eased)
	case components.ArmPhaseReachDown, components.ArmPhaseGrab, components.ArmPhaseLift:
		pose.BaseYaw = pickup
	case components.ArmPhaseRotateToPlace:
		pose.BaseYaw = utils.Lerp(pickup, place, eased)
	default:
		pose.BaseYaw = place
	}

	pose.ShoulderPitch = jointReach(st, eased, motion.ShoulderAmplitude)
	pose.ElbowPitch = jointReach(st, eased, motion.ElbowAmplitude)

	switch st.CurrentPhase {
	case components.ArmPhaseGrab:
		pose.GripperAperture = 1 - 0.5*eased
	case components.ArmPhaseLift, components.ArmPhaseRotateToPlace, components.ArmPhaseLower:
		pose.GripperAperture = 0.5
	case components.ArmPhaseRelease:
		pose.GripperAperture = 0.5 + 0.5*eased
	}
	return pose
}

// jointReach 肩、肘关节的下探曲线，amplitude 为最大角
func jointReach(st components.ArmCycleState, eased, amplitude float64) float64 {
	switch st.CurrentPhase {
	case components.ArmPhaseIdle:
		if st.IsFirstCycle {
			return 0
		}
		return (1 - eased) * amplitude
	case components.ArmPhaseReachDown, components.ArmPhaseLower:
		return eased * amplitude
	case components.ArmPhaseGrab, components.ArmPhaseRelease:
		return amplitude
	case components.ArmPhaseLift:
		return (1 - eased) * amplitude
	}
	return 0
}

// ArmAnimationSystem 每帧推进场景中所有机械臂的状态机
type ArmAnimationSystem struct {
	em       *ecs.EntityManager
	machines map[ecs.EntityID]*ArmPhaseMachine
	// OnCycleCompleted 完成一个循环时调用，可为 nil
	OnCycleCompleted func(id ecs.EntityID, state components.ArmCycleState)
}

// NewArmAnimationSystem 创建机械臂动画系统
func NewArmAnimationSystem(em *ecs.EntityManager) *ArmAnimationSystem {
	return &ArmAnimationSystem{
		em:       em,
		machines: make(map[ecs.EntityID]*ArmPhaseMachine),
	}
}

// Update 推进每个机械臂一次
// 阶段表非法的机械臂在首次遇到时记录日志，之后一直保持初始姿态
func (s *ArmAnimationSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.ArmComponent](s.em) {
		m, seen := s.machines[id]
		if !seen {
			arm, _ := ecs.GetComponent[*components.ArmComponent](s.em, id)
			var err error
			m, err = NewArmPhaseMachine(arm)
			if err != nil {
				logDisabled("ArmAnimationSystem", id, err)
				m = nil
			}
			s.machines[id] = m
		}
		if m == nil {
			continue
		}

		if _, completed := m.Tick(deltaTime); completed {
			st := m.State()
			log.Printf("[ArmAnimationSystem] Arm %d completed cycle, cube now on %s", id, sideName(st.SideFlag))
			if s.OnCycleCompleted != nil {
				s.OnCycleCompleted(id, st)
			}
		}
	}

	// 清理已销毁的实体
	for id := range s.machines {
		if !s.em.Exists(id) {
			delete(s.machines, id)
		}
	}
}

func sideName(right bool) string {
	if right {
		return "right"
	}
	return "left"
}
