package components

// OverlayComponent 右侧滑入的内容面板
type OverlayComponent struct {
	Title        string
	URL          string
	WidthRatio   float64 // 面板宽度 / 屏幕宽度
	MaxWidth     float64
	SlideSeconds float64
	CloseKey     string

	Open bool
	// Linear 线性滑动进度 [0, 1]，0 为完全隐藏
	Linear float64
	// Progress 缓动后的滑入进度，用于绘制
	Progress float64
}

// Visible 面板是否有任何部分在屏幕上
func (o *OverlayComponent) Visible() bool {
	return o.Open || o.Progress > 0
}
