package components

import (
	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/ecs"
)

// CameraComponent 跟随摄像机
//
// 每帧 Position 以 LerpFactor 的比例向 Target+Offset 靠近，
// 并对准 Target 实体的位置（LookAt）。
type CameraComponent struct {
	Target     ecs.EntityID // 跟随的实体
	Position   math32.Vector3
	Offset     math32.Vector3
	LookAt     math32.Vector3
	LerpFactor float32 // (0, 1]
	FOV        float64 // 垂直视野（度）
}
