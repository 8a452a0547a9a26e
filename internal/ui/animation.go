// internal/ui/animation.go
package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"hexxagon/internal/game"
)

const (
	moveDur   = 300 * time.Millisecond // 棋子飞行时长
	infectDur = 250 * time.Millisecond // 感染变色时长
)

// moveAnim 一次走子的动画：棋子从起点飞到落点，随后被感染的棋子逐渐变色
type moveAnim struct {
	ev    moveEvent
	start time.Time
}

func (a *moveAnim) duration() time.Duration {
	if len(a.ev.captured) == 0 {
		return moveDur
	}
	return moveDur + infectDur
}

func (a *moveAnim) done(now time.Time) bool {
	return now.Sub(a.start) >= a.duration()
}

// board 动画期间显示的棋盘：落点在棋子到达前为空，被感染的格子保持原色
func (a *moveAnim) board(now time.Time) game.Board {
	b := a.ev.before
	if a.ev.move.ClearsOrigin() {
		b[a.ev.move.From] = game.Empty
	}
	if now.Sub(a.start) >= moveDur {
		b[a.ev.move.To] = a.ev.player
	}
	return b
}

// flight 飞行中的棋子位置和缩放；到达后 ok 为 false
func (a *moveAnim) flight(now time.Time) (x, y, scale float64, ok bool) {
	t := float64(now.Sub(a.start)) / float64(moveDur)
	if t >= 1 {
		return 0, 0, 0, false
	}
	t = max(t, 0)
	x0, y0 := CellCenter(a.ev.move.From)
	x1, y1 := CellCenter(a.ev.move.To)
	scale = 1
	if a.ev.move.Kind == game.Add {
		// 复制：新棋子从小长大
		scale = 0.4 + 0.6*t
	}
	return x0 + (x1-x0)*t, y0 + (y1-y0)*t, scale, true
}

// infection 被感染棋子的变色进度，0 为原色，1 为新颜色
func (a *moveAnim) infection(now time.Time) float64 {
	t := float64(now.Sub(a.start)-moveDur) / float64(infectDur)
	return min(max(t, 0), 1)
}

func (a *moveAnim) draw(dst *ebiten.Image) {
	now := time.Now()
	if x, y, scale, ok := a.flight(now); ok {
		drawPiece(dst, x, y, pieceColors[a.ev.player], scale)
		return
	}
	p := a.infection(now)
	from := pieceColors[game.Opponent(a.ev.player)]
	to := pieceColors[a.ev.player]
	for _, i := range a.ev.captured {
		x, y := CellCenter(i)
		drawPiece(dst, x, y, mix(from, to, p), 1)
		vector.StrokeCircle(dst, float32(x), float32(y), float32(hexRadius*(0.6+0.2*p)), 2, to, true)
	}
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	l := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), l(a.A, b.A)}
}
