package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

// reset 恢复包级状态，避免测试之间互相影响
func reset(t *testing.T) {
	t.Helper()
	prevFS, prevInit := dataFS, initialized
	t.Cleanup(func() {
		dataFS, initialized = prevFS, prevInit
	})
	dataFS, initialized = nil, false
}

func TestNotInitialized(t *testing.T) {
	reset(t)

	if IsInitialized() {
		t.Fatal("Expected IsInitialized() to return false before Init()")
	}
	if _, err := ReadFile("data/scene.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile before Init: err = %v, want ErrNotInitialized", err)
	}
	if Exists("data/scene.yaml") {
		t.Error("Exists should be false before Init()")
	}
}

func TestReadFile(t *testing.T) {
	reset(t)

	Init(fstest.MapFS{
		"data/scene.yaml": {Data: []byte("world:\n  size: 10\n")},
	})
	if !IsInitialized() {
		t.Fatal("Expected IsInitialized() to return true after Init()")
	}

	// 支持 "./" 前缀
	data, err := ReadFile("./data/scene.yaml")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "world:\n  size: 10\n" {
		t.Errorf("unexpected content %q", data)
	}

	if !Exists("data/scene.yaml") {
		t.Error("Exists should report the embedded file")
	}
	if Exists("data/missing.yaml") {
		t.Error("Exists should be false for a missing file")
	}
}

func TestUnknownPrefix(t *testing.T) {
	reset(t)
	Init(fstest.MapFS{})

	if _, err := ReadFile("assets/scene.yaml"); err == nil {
		t.Error("expected an error for a path outside data/")
	}
}
