package config

// 窗口与 UI 布局常量
const (
	// GameWindowWidth 逻辑屏幕宽度（像素），窗口缩放由 Ebitengine 处理
	GameWindowWidth = 1280

	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 720

	// WindowTitle 窗口标题
	WindowTitle = "RoboWorld"

	// TPS 每秒逻辑帧数，帧间隔固定为 1/TPS 秒
	TPS = 60
)

// UI 字号（像素）
const (
	TitleFontSize = 24.0
	BodyFontSize  = 18.0
	SmallFontSize = 14.0
)
