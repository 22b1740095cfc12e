package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// 音效ID
const (
	SoundChime = "chime"
)

// AudioManager 音效管理器
//
// 所有音效都经过 AudioManager 播放，音量和开关取自 SettingsManager。
// nil 的 *AudioManager 可以安全调用，什么都不做。
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager         // 可为 nil
	tones           map[string]Tone          // 音效ID -> 合成参数
	soundPlayers    map[string]*audio.Player // 音效ID -> 播放器
}

// NewAudioManager 创建音效管理器并注册内置提示音
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		tones:           map[string]Tone{SoundChime: ChimeTone},
		soundPlayers:    make(map[string]*audio.Player),
	}
}

// PlaySound 播放音效，返回是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if am == nil {
		return false
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.GetSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()
	return true
}

// SetSoundVolume 设置音效音量并应用到已缓存的播放器
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am == nil {
		return
	}
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
		volume = am.settingsManager.GetSettings().SoundVolume
	} else {
		volume = clampVolume(volume)
	}
	for _, player := range am.soundPlayers {
		if player != nil {
			player.SetVolume(volume)
		}
	}
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	if am != nil && am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return DefaultSettings().SoundVolume
}

// Preload 预先合成音效，避免首次播放时卡顿
func (am *AudioManager) Preload(soundIDs ...string) {
	if am == nil {
		return
	}
	loaded := 0
	for _, id := range soundIDs {
		if am.getSoundPlayer(id) != nil {
			loaded++
		}
	}
	log.Printf("[AudioManager] Preloaded %d/%d sounds", loaded, len(soundIDs))
}

func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, exists := am.soundPlayers[soundID]; exists {
		return player
	}
	if am.resourceManager == nil {
		return nil
	}

	tone, known := am.tones[soundID]
	if !known {
		log.Printf("[AudioManager] Warning: Sound not found: %s", soundID)
		return nil
	}
	player, err := am.resourceManager.LoadTone(soundID, tone)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to load sound %s: %v", soundID, err)
		// 缓存失败结果，不在每次触发时重试
		am.soundPlayers[soundID] = nil
		return nil
	}
	am.soundPlayers[soundID] = player
	return player
}
