package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 超出范围的输入会先被钳制。
//
// 参考：https://easings.net/

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return Clamp01(t)
}

// EaseOutSine 四分之一正弦缓出
// 特点：单调递增，t=1 处斜率为 0（机械臂每个阶段都使用它）
// 公式：f(t) = sin(t·π/2)
func EaseOutSine(t float64) float64 {
	return math.Sin(Clamp01(t) * math.Pi * 0.5)
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（面板滑入使用）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将 v 限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Fract 返回 x 的小数部分，结果恒在 [0, 1)
// 负数同样适用：Fract(-0.25) = 0.75
func Fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		// 极小的负数可能因舍入得到 1
		return 0
	}
	return f
}

// SmoothStep Hermite 平滑插值，与 GLSL smoothstep 一致
// edge0 > edge1 时得到反向的衰减曲线
func SmoothStep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
