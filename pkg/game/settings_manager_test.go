package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时目录中打开 gdata 存储
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings 测试默认值
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.SoundVolume != 0.8 {
		t.Errorf("SoundVolume: got %v, want 0.8", s.SoundVolume)
	}
	if !s.SoundEnabled || !s.ShowTrail || !s.ShowHUD {
		t.Errorf("sound, trail and HUD should default to on: %+v", s)
	}
	if s.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试降级模式
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm.GetSettings() == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}
	sm.SetFullscreen(true)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode: %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode: %v", err)
	}
	if sm.GetSettings().Fullscreen {
		t.Error("degraded Load() should reset to defaults")
	}
}

// TestSettingsLoadSave 测试保存后重新加载
func TestSettingsLoadSave(t *testing.T) {
	m := openTestGdata(t, "roboworld_settings_test")

	sm1 := NewSettingsManager(m)
	sm1.SetSoundVolume(0.3)
	sm1.SetSoundEnabled(false)
	sm1.SetFullscreen(true)
	sm1.ToggleTrail()
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2 := NewSettingsManager(m)
	got := sm2.GetSettings()
	want := Settings{SoundVolume: 0.3, SoundEnabled: false, Fullscreen: true, ShowTrail: false, ShowHUD: true}
	if *got != want {
		t.Errorf("reloaded settings = %+v, want %+v", *got, want)
	}
}

// TestSettingsLoadPartialFile 旧文件缺少的字段保持默认值
func TestSettingsLoadPartialFile(t *testing.T) {
	m := openTestGdata(t, "roboworld_settings_partial_test")
	if err := m.SaveObjectProp(settingsObject, settingsProperty, []byte("fullscreen: true\nsoundVolume: 7\n")); err != nil {
		t.Fatal(err)
	}

	s := NewSettingsManager(m).GetSettings()
	if !s.Fullscreen {
		t.Error("Fullscreen should be loaded from file")
	}
	if !s.ShowTrail || !s.ShowHUD {
		t.Error("missing fields should keep defaults")
	}
	if s.SoundVolume != 1 {
		t.Errorf("SoundVolume = %v, want clamped 1", s.SoundVolume)
	}
}

// TestSettingsLoadCorrupted 损坏的文件回退到默认设置
func TestSettingsLoadCorrupted(t *testing.T) {
	m := openTestGdata(t, "roboworld_settings_corrupt_test")
	if err := m.SaveObjectProp(settingsObject, settingsProperty, []byte("fullscreen: [oops")); err != nil {
		t.Fatal(err)
	}

	sm := NewSettingsManager(m)
	if *sm.GetSettings() != *DefaultSettings() {
		t.Errorf("corrupted file should fall back to defaults, got %+v", sm.GetSettings())
	}
	if err := sm.Load(); err == nil {
		t.Error("Load() should report the unmarshal error")
	}
}

func TestToggles(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm.ToggleTrail() {
		t.Error("first ToggleTrail should hide the trail")
	}
	if !sm.ToggleTrail() {
		t.Error("second ToggleTrail should show the trail")
	}
	if sm.ToggleHUD() || sm.GetSettings().ShowHUD {
		t.Error("ToggleHUD should hide the HUD")
	}
}

// TestClampVolume 测试音量限制
func TestClampVolume(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"正常值", 0.5, 0.5},
		{"下限", 0.0, 0.0},
		{"上限", 1.0, 1.0},
		{"负数", -0.5, 0.0},
		{"超出", 1.5, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampVolume(tt.input); got != tt.want {
				t.Errorf("clampVolume(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
