package systems

import (
	"cogentcore.org/core/math32"
	"github.com/decker502/roboworld/pkg/components"
	"github.com/decker502/roboworld/pkg/ecs"
	"github.com/decker502/roboworld/pkg/input"
)

// PlayerMovementSystem 根据 WASD 按键状态设置玩家球体的水平速度并让它滚动
//
// 按键状态通过订阅输入事件维护，不直接读取全局键盘状态。
type PlayerMovementSystem struct {
	em  *ecs.EntityManager
	sub *input.Subscription
}

// NewPlayerMovementSystem 创建移动系统并订阅按键事件
func NewPlayerMovementSystem(em *ecs.EntityManager, dispatcher *input.Dispatcher) *PlayerMovementSystem {
	s := &PlayerMovementSystem{em: em}
	if dispatcher != nil {
		s.sub = dispatcher.Subscribe(s.handleKey)
	}
	return s
}

// Close 注销按键订阅
func (s *PlayerMovementSystem) Close() {
	s.sub.Close()
}

func (s *PlayerMovementSystem) handleKey(ev input.KeyEvent) {
	for _, id := range ecs.GetEntitiesWith1[*components.PlayerComponent](s.em) {
		player, _ := ecs.GetComponent[*components.PlayerComponent](s.em, id)
		switch ev.Key {
		case "w":
			player.Forward = ev.Down
		case "s":
			player.Back = ev.Down
		case "a":
			player.Left = ev.Down
		case "d":
			player.Right = ev.Down
		}
	}
}

// PlayerVelocity 由按键状态计算水平速度
// W 为 -Z 方向，D 为 +X 方向；相反方向同时按下时互相抵消
func PlayerVelocity(p *components.PlayerComponent) (vx, vz float32) {
	if p.Forward {
		vz -= p.Speed
	}
	if p.Back {
		vz += p.Speed
	}
	if p.Left {
		vx -= p.Speed
	}
	if p.Right {
		vx += p.Speed
	}
	return vx, vz
}

// Update 写入速度并更新滚动朝向
// 竖直速度留给物理系统
func (s *PlayerMovementSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith3[*components.PlayerComponent, *components.VelocityComponent, *components.TransformComponent](s.em) {
		player, _ := ecs.GetComponent[*components.PlayerComponent](s.em, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)

		vx, vz := PlayerVelocity(player)
		vel.Linear.X = vx
		vel.Linear.Z = vz

		speed := math32.Sqrt(vx*vx + vz*vz)
		if speed > 0 {
			// 绕 (-vz, 0, vx) 轴滚动，每帧 |v|·系数 弧度
			axis := math32.Vec3(-vz, 0, vx).Normal()
			roll := math32.NewQuatAxisAngle(axis, speed*player.RollSpeedMultiplier)
			if transform.Rotation.IsNil() {
				transform.Rotation = identityQuat()
			}
			transform.Rotation = transform.Rotation.Mul(roll)
			transform.Rotation.Normalize()
		}
	}
}
