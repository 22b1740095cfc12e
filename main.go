package main

import (
	"flag"
	"log"

	"github.com/decker502/roboworld/pkg/app"
	"github.com/decker502/roboworld/pkg/config"
	"github.com/decker502/roboworld/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	scenePath := flag.String("config", "", "磁盘上的场景配置文件（默认使用内置 data/scene.yaml）")
	watch := flag.Bool("watch", false, "监视 -config 指定的文件，修改后自动重建场景")
	fullscreen := flag.Bool("fullscreen", false, "以全屏模式启动")
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ScenePath:  *scenePath,
		Watch:      *watch,
		Fullscreen: *fullscreen,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TPS)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Printf("运行结束: %v", err)
	}
}
