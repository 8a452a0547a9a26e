package sound

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog/log"
)

// AudioManager plays the generated effects. A nil context or disabled manager
// accepts every call and plays nothing.
type AudioManager struct {
	ctx     *audio.Context
	buffers map[Effect][]byte
	enabled bool

	mu      sync.Mutex
	players []*audio.Player // 保留正在播放的 player，防止被 GC
}

// NewAudioManager 接收 main 创建好的 *audio.Context，不再 NewContext
func NewAudioManager(ctx *audio.Context, enabled bool) *AudioManager {
	m := &AudioManager{ctx: ctx, enabled: enabled && ctx != nil}
	if !m.enabled {
		return m
	}
	m.buffers = make(map[Effect][]byte, len(effects))
	for _, e := range Effects() {
		m.buffers[e] = render(effects[e], ctx.SampleRate())
	}
	return m
}

// Play 播放 e 对应音效
func (m *AudioManager) Play(e Effect) {
	if !m.enabled {
		return
	}
	data, ok := m.buffers[e]
	if !ok {
		log.Warn().Str("effect", string(e)).Msg("unknown sound effect")
		return
	}
	p := m.ctx.NewPlayerFromBytes(data)
	p.Play()
	m.mu.Lock()
	m.players = append(m.players, p)
	m.mu.Unlock()
}

// PlaySequential plays the effects one after another without blocking the caller.
func (m *AudioManager) PlaySequential(es ...Effect) {
	if !m.enabled || len(es) == 0 {
		return
	}
	go func() {
		for _, e := range es {
			m.Play(e)
			time.Sleep(Duration(e))
		}
	}()
}

// Update 应每帧调用一次，清理已停止的播放器
func (m *AudioManager) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	alive := m.players[:0]
	for _, p := range m.players {
		if p.IsPlaying() {
			alive = append(alive, p)
			continue
		}
		_ = p.Close()
	}
	m.players = alive
}

// Busy reports whether any effect is still playing.
func (m *AudioManager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.IsPlaying() {
			return true
		}
	}
	return false
}
