package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可运行的场景
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为上一帧以来经过的秒数
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)

	// Close 释放场景持有的订阅等资源
	// 场景被替换时由 SceneManager 调用，之后不会再调用 Update/Draw
	Close()
}
