package game

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/decker502/roboworld/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFont 内置字体名，不需要任何数据文件
const DefaultFont = "goregular"

// ErrNoAudioContext 没有可用的音频上下文（测试或无声卡环境）
var ErrNoAudioContext = errors.New("audio context unavailable")

// ResourceManager 集中管理字体和音效资源
//
// 资源只加载一次并缓存复用。非线程安全，只在帧循环所在的 goroutine 中使用。
//
// Usage:
//
//	rm := NewResourceManager(audio.NewContext(SampleRate))
//	face, err := rm.LoadFont(DefaultFont, 18)
type ResourceManager struct {
	audioContext  *audio.Context                     // 可为 nil，此时不加载任何音效
	fontSources   map[string]*text.GoTextFaceSource  // 字体名 -> 解析后的字体数据
	fontFaceCache map[string]*text.GoTextFace        // "名称:字号" -> 字体
	audioCache    map[string]*audio.Player           // 音效ID -> 播放器
}

// NewResourceManager 创建资源管理器
//
// audioContext 可为 nil（降级模式，LoadTone 返回 ErrNoAudioContext）。
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		audioContext:  audioContext,
		fontSources:   make(map[string]*text.GoTextFaceSource),
		fontFaceCache: make(map[string]*text.GoTextFace),
		audioCache:    make(map[string]*audio.Player),
	}
}

// LoadFont 加载字体并按字号缓存
//
// 参数:
//   - name: DefaultFont 或内置数据中的字体路径（如 "data/fonts/label.ttf"）
//   - size: 字号（像素）
func (rm *ResourceManager) LoadFont(name string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", name, size)
	if cached, exists := rm.fontFaceCache[cacheKey]; exists {
		return cached, nil
	}

	source, err := rm.fontSource(name)
	if err != nil {
		return nil, err
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// GetFont 返回已加载的字体，未加载时返回 nil
func (rm *ResourceManager) GetFont(name string, size float64) *text.GoTextFace {
	return rm.fontFaceCache[fmt.Sprintf("%s:%.1f", name, size)]
}

func (rm *ResourceManager) fontSource(name string) (*text.GoTextFaceSource, error) {
	if source, exists := rm.fontSources[name]; exists {
		return source, nil
	}

	var data []byte
	if name == DefaultFont {
		data = goregular.TTF
	} else {
		var err error
		data, err = embedded.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", name, err)
		}
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", name, err)
	}
	rm.fontSources[name] = source
	return source, nil
}

// LoadTone 合成一段提示音并缓存播放器
func (rm *ResourceManager) LoadTone(id string, tone Tone) (*audio.Player, error) {
	if cached, exists := rm.audioCache[id]; exists {
		return cached, nil
	}
	if rm.audioContext == nil {
		return nil, fmt.Errorf("failed to load tone %s: %w", id, ErrNoAudioContext)
	}
	pcm, err := SynthesizeTone(rm.audioContext.SampleRate(), tone)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize tone %s: %w", id, err)
	}

	player := rm.audioContext.NewPlayerFromBytes(pcm)
	rm.audioCache[id] = player
	return player, nil
}

// GetAudioPlayer 返回已加载的播放器，未加载时返回 nil
func (rm *ResourceManager) GetAudioPlayer(id string) *audio.Player {
	return rm.audioCache[id]
}
