package components

import "cogentcore.org/core/math32"

// TransformComponent 世界空间中的位置和朝向
type TransformComponent struct {
	Position math32.Vector3
	Rotation math32.Quat
}

// NewTransform 创建位于 pos、无旋转的变换
func NewTransform(pos math32.Vector3) *TransformComponent {
	return &TransformComponent{
		Position: pos,
		Rotation: math32.NewQuat(0, 0, 0, 1),
	}
}
