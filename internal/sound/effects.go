package sound

import (
	"encoding/binary"
	"math"
	"time"
)

// SampleRate 与 audio.Context 的采样率一致
const SampleRate = 44100

// Effect names one generated sound effect.
type Effect string

const (
	Select   Effect = "select_piece"
	Cancel   Effect = "cancel_select_piece"
	Split    Effect = "split"
	Jump     Effect = "jump"
	Capture  Effect = "capture"
	GameOver Effect = "game_over"
)

// tone 一段频率滑动的正弦波，音量按指数衰减
type tone struct {
	from, to float64 // Hz
	dur      time.Duration
	volume   float64
}

var effects = map[Effect][]tone{
	Select:   {{from: 660, to: 880, dur: 60 * time.Millisecond, volume: 0.25}},
	Cancel:   {{from: 330, to: 220, dur: 80 * time.Millisecond, volume: 0.2}},
	Split:    {{from: 440, to: 660, dur: 120 * time.Millisecond, volume: 0.3}},
	Jump:     {{from: 520, to: 260, dur: 90 * time.Millisecond, volume: 0.3}, {from: 260, to: 520, dur: 90 * time.Millisecond, volume: 0.3}},
	Capture:  {{from: 180, to: 120, dur: 150 * time.Millisecond, volume: 0.35}},
	GameOver: {{from: 523, to: 523, dur: 150 * time.Millisecond, volume: 0.3}, {from: 659, to: 659, dur: 150 * time.Millisecond, volume: 0.3}, {from: 784, to: 784, dur: 300 * time.Millisecond, volume: 0.3}},
}

// Effects lists every effect the manager can play.
func Effects() []Effect {
	return []Effect{Select, Cancel, Split, Jump, Capture, GameOver}
}

// Duration returns how long e plays.
func Duration(e Effect) time.Duration {
	var d time.Duration
	for _, t := range effects[e] {
		d += t.dur
	}
	return d
}

// render 生成 16 位小端立体声 PCM，可直接交给 audio.Context.NewPlayerFromBytes
func render(ts []tone, sampleRate int) []byte {
	var n int
	for _, t := range ts {
		n += samples(t.dur, sampleRate)
	}
	out := make([]byte, 0, n*4)
	var buf [4]byte
	for _, t := range ts {
		count := samples(t.dur, sampleRate)
		phase := 0.0
		for i := 0; i < count; i++ {
			p := float64(i) / float64(count)
			freq := t.from + (t.to-t.from)*p
			phase += 2 * math.Pi * freq / float64(sampleRate)
			v := math.Sin(phase) * t.volume * math.Exp(-3*p)
			s := uint16(int16(v * math.MaxInt16))
			binary.LittleEndian.PutUint16(buf[0:], s)
			binary.LittleEndian.PutUint16(buf[2:], s)
			out = append(out, buf[:]...)
		}
	}
	return out
}

func samples(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}
