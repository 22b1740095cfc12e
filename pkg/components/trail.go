package components

import (
	"time"

	"cogentcore.org/core/math32"
)

// TrailPoint 轨迹采样点，创建后不再修改
type TrailPoint struct {
	Position  math32.Vector3
	CreatedAt time.Duration // 自场景开始的时间
}

// TrailView 渲染用的轨迹点
type TrailView struct {
	Position       math32.Vector3
	Opacity        float64 // (0, 1]
	Emissive       float64
	LightIntensity float64
}

// TrailComponent 玩家移动轨迹
type TrailComponent struct {
	MaxPoints          int
	Spacing            float32
	FadeTime           time.Duration
	LightIntensity     float64
	EmissiveMultiplier float64
	MarkerRadius       float32

	// Points 按插入顺序排列，最旧的在前
	Points      []TrailPoint
	LastSampled math32.Vector3
	Views       []TrailView
}
