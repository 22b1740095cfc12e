package systems

import (
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
)

// PhysicsSystem 简单的球体物理：重力、速度积分、地面碰撞
//
// 只处理平整地面 (y=0)，球体底部不会穿过地面。
type PhysicsSystem struct {
	em      *ecs.EntityManager
	gravity float32
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - em: 实体管理器
//   - gravity: 竖直方向加速度（负值向下）
func NewPhysicsSystem(em *ecs.EntityManager, gravity float32) *PhysicsSystem {
	return &PhysicsSystem{
		em:      em,
		gravity: gravity,
	}
}

// Update 积分所有刚体
func (ps *PhysicsSystem) Update(deltaTime float64) {
	if !(deltaTime > 0) {
		return
	}
	dt := float32(deltaTime)

	for _, id := range ecs.GetEntitiesWith3[*components.BodyComponent, *components.VelocityComponent, *components.TransformComponent](ps.em) {
		body, _ := ecs.GetComponent[*components.BodyComponent](ps.em, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](ps.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](ps.em, id)

		vel.Linear.Y += ps.gravity * dt
		transform.Position = transform.Position.Add(vel.Linear.MulScalar(dt))

		// 地面碰撞
		body.Grounded = false
		if transform.Position.Y <= body.Radius {
			transform.Position.Y = body.Radius
			if vel.Linear.Y < 0 {
				vel.Linear.Y = 0
			}
			body.Grounded = true
		}
	}
}
