package components

import "github.com/decker502/roboworld/pkg/ecs"

// InteractionZoneComponent 靠近锚点实体时可触发的交互区域
type InteractionZoneComponent struct {
	Anchor ecs.EntityID // 通常是机械臂实体
	Radius float32
	Key    string // 交互键，如 "r"
	Title  string
	Hint   string
	// PromptHeight 提示文字在锚点上方的高度
	PromptHeight float32

	// Armed 玩家是否在范围内，每帧重新计算
	Armed bool
	// Fired 累计触发次数
	Fired int
}
