package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// SampleRate 音频上下文采样率
const SampleRate = 48000

// Tone 一段衰减的正弦提示音，可叠加一个泛音
type Tone struct {
	Frequency float64       // 基频 (Hz)
	Overtone  float64       // 泛音频率，0 表示没有
	Duration  time.Duration // 总时长
	Decay     float64       // 指数衰减速率（每秒）
	Gain      float64       // 峰值振幅 0.0 ~ 1.0
}

// ChimeTone 交互触发时播放的提示音
var ChimeTone = Tone{
	Frequency: 880,
	Overtone:  1320,
	Duration:  350 * time.Millisecond,
	Decay:     9,
	Gain:      0.4,
}

// ErrInvalidTone 提示音参数非法
var ErrInvalidTone = errors.New("invalid tone")

// SynthesizeTone 生成 16 位小端双声道 PCM
//
// 这是 ebiten audio.Context.NewPlayerFromBytes 需要的格式。
// 结尾 5ms 线性淡出，避免爆音。
func SynthesizeTone(sampleRate int, tone Tone) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidTone, sampleRate)
	}
	if tone.Frequency <= 0 || tone.Duration <= 0 {
		return nil, fmt.Errorf("%w: frequency %v, duration %v", ErrInvalidTone, tone.Frequency, tone.Duration)
	}
	gain := math.Max(0, math.Min(1, tone.Gain))

	n := int(tone.Duration.Seconds() * float64(sampleRate))
	fade := sampleRate / 200
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		v := math.Sin(2 * math.Pi * tone.Frequency * t)
		if tone.Overtone > 0 {
			v = 0.7*v + 0.3*math.Sin(2*math.Pi*tone.Overtone*t)
		}
		v *= gain * math.Exp(-tone.Decay*t)
		if rest := n - i; rest < fade {
			v *= float64(rest) / float64(fade)
		}

		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], s)
		binary.LittleEndian.PutUint16(buf[i*4+2:], s)
	}
	return buf, nil
}
