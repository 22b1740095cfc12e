package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher 监视磁盘上的场景配置文件（-watch 参数）
//
// 监视所在目录而不是文件本身，编辑器"写临时文件再重命名"的保存方式也能被捕获。
// 重新加载在后台 goroutine 中完成，通过带缓冲的通道交给帧循环；
// 帧循环在 Update 开头非阻塞地读取 Updates()。
// 解析或校验失败的文件只记录日志，不会投递。
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *SceneConfig
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewConfigWatcher 创建并启动配置文件监视器
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	cw := &ConfigWatcher{
		path:    abs,
		watcher: watcher,
		updates: make(chan *SceneConfig, 1),
		done:    make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.run()

	log.Printf("[ConfigWatcher] Watching %s", abs)
	return cw, nil
}

// Updates 返回重新加载成功的配置
func (cw *ConfigWatcher) Updates() <-chan *SceneConfig {
	return cw.updates
}

// Close 停止监视并等待后台 goroutine 退出，可重复调用
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.done)
		err = cw.watcher.Close()
		cw.wg.Wait()
	})
	return err
}

func (cw *ConfigWatcher) run() {
	defer cw.wg.Done()
	for {
		select {
		case <-cw.done:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ConfigWatcher] Error: %v", err)
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadSceneConfigFile(cw.path)
	if err != nil {
		// 写入过程中可能读到半个文件，等下一个事件
		log.Printf("[ConfigWatcher] Reload skipped: %v", err)
		return
	}

	// 只保留最新的一份：丢弃尚未被帧循环取走的旧配置
	select {
	case <-cw.updates:
	default:
	}
	select {
	case cw.updates <- cfg:
		log.Printf("[ConfigWatcher] Reloaded %s", cw.path)
	case <-cw.done:
	}
}
