package components

import "image/color"

// GroundComponent 地面平面 (y=0) 与参考网格
type GroundComponent struct {
	Size        float32 // 边长，以原点为中心
	GridSpacing float32
	Background  color.RGBA
	GridColor   color.RGBA
}
