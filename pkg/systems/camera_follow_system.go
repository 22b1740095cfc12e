package systems

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
)

// CameraFollower 跟随摄像机控制器
//
// 每帧 position = lerp(position, tracked+offset, lerpFactor)，并对准 tracked。
// 插值不按 deltaTime 缩放，平滑程度随帧率变化。
type CameraFollower struct {
	cam *components.CameraComponent
}

// NewCameraFollower 校验插值系数并包装摄像机组件
func NewCameraFollower(cam *components.CameraComponent) (*CameraFollower, error) {
	if cam == nil {
		return nil, fmt.Errorf("%w: nil camera component", ErrInvalidLerpFactor)
	}
	if !(cam.LerpFactor > 0 && cam.LerpFactor <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidLerpFactor, cam.LerpFactor)
	}
	return &CameraFollower{cam: cam}, nil
}

// Tick 向目标靠近一步，deltaTime ≤ 0 时保持不动
func (f *CameraFollower) Tick(deltaTime float64, tracked math32.Vector3) (position, lookAt math32.Vector3) {
	if !(deltaTime > 0) {
		return f.cam.Position, f.cam.LookAt
	}
	target := tracked.Add(f.cam.Offset)
	f.cam.Position = f.cam.Position.Add(target.Sub(f.cam.Position).MulScalar(f.cam.LerpFactor))
	f.cam.LookAt = tracked
	return f.cam.Position, f.cam.LookAt
}

// CameraFollowSystem 更新所有跟随摄像机
type CameraFollowSystem struct {
	em        *ecs.EntityManager
	followers map[ecs.EntityID]*CameraFollower
}

// NewCameraFollowSystem 创建摄像机跟随系统
func NewCameraFollowSystem(em *ecs.EntityManager) *CameraFollowSystem {
	return &CameraFollowSystem{
		em:        em,
		followers: make(map[ecs.EntityID]*CameraFollower),
	}
}

// Update 目标实体不存在时摄像机保持不动
func (s *CameraFollowSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.CameraComponent](s.em) {
		cam, _ := ecs.GetComponent[*components.CameraComponent](s.em, id)
		f, seen := s.followers[id]
		if !seen {
			var err error
			f, err = NewCameraFollower(cam)
			if err != nil {
				logDisabled("CameraFollowSystem", id, err)
				f = nil
			}
			s.followers[id] = f
		}
		if f == nil {
			continue
		}
		target, ok := ecs.GetComponent[*components.TransformComponent](s.em, cam.Target)
		if !ok {
			continue
		}
		f.Tick(deltaTime, target.Position)
	}
}
