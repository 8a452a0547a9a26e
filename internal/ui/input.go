// File ui/input.go
package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
	"hexxagon/internal/sound"
)

// CellAt 把窗口像素坐标反算成格子下标，落在棋盘外时 ok 为 false
func CellAt(x, y float64) (int, bool) {
	best, bestD := -1, math.MaxFloat64
	for i := range cellCenters {
		dx := x - cellCenters[i][0]
		dy := y - cellCenters[i][1]
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD = i, d
		}
	}
	// 内切圆半径以内才算点中
	inner := hexRadius * math.Sqrt(3) / 2
	if best < 0 || bestD > inner*inner {
		return -1, false
	}
	return best, true
}

// handleKeys 处理键盘：1/2/3 选模式开局，N 重开，R 复位，F 换先手，D/E 调深度
func (gs *GameScreen) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		gs.settings.Mode = session.HumanVsHuman
		gs.Start()
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		gs.settings.Mode = session.HumanVsComputer
		gs.Start()
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		gs.settings.Mode = session.ComputerVsComputer
		gs.Start()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		gs.Start()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		gs.reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		gs.settings.First = game.Opponent(gs.settings.First)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		gs.settings.Depth1 = (gs.settings.Depth1 + 1) % (game.MaxDepth + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		gs.settings.Depth2 = (gs.settings.Depth2 + 1) % (game.MaxDepth + 1)
	}
	return nil
}

// handleMouse 鼠标左键点击转交给控制器；动画播放期间不响应
func (gs *GameScreen) handleMouse() {
	if gs.anim != nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	i, ok := CellAt(float64(mx), float64(my))
	if !ok {
		gs.audio.Play(sound.Cancel)
		return
	}
	gs.view.noteClick(i)
	if err := gs.ctrl.Click(gs.ctx, i); err != nil {
		gs.log.Error().Err(err).Int("cell", i).Msg("click failed")
	}
}
