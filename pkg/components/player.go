package components

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// PlayerComponent 玩家控制的球体
type PlayerComponent struct {
	Speed               float32 // 水平速度（单位/秒）
	RollSpeedMultiplier float32 // 滚动角 = |v| × 系数（每帧）
	Color               color.RGBA

	// 按键状态，由输入事件维护
	Forward, Back, Left, Right bool
}

// VelocityComponent 线速度
type VelocityComponent struct {
	Linear math32.Vector3
}

// BodyComponent 球形刚体，物理系统使用
type BodyComponent struct {
	Radius   float32
	Grounded bool
}
