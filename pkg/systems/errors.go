package systems

import "errors"

// 构造时的配置校验错误
var (
	// ErrInvalidPhaseTable 阶段表长度不是 8，或存在非正的时长
	ErrInvalidPhaseTable = errors.New("invalid arm phase table")
	// ErrInvalidTrail 轨迹容量、间距或淡出时间非正
	ErrInvalidTrail = errors.New("invalid trail settings")
	// ErrInvalidLerpFactor 摄像机插值系数不在 (0, 1]
	ErrInvalidLerpFactor = errors.New("camera lerp factor must be in (0, 1]")
	// ErrInvalidRadius 交互半径非正
	ErrInvalidRadius = errors.New("interaction radius must be > 0")
)
