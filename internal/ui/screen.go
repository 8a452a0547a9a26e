// File /ui/screen.go
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
	"hexxagon/internal/sound"
)

// GameScreen 实现 ebiten.Game 接口：把输入交给控制器，按 View 中的数据绘制
type GameScreen struct {
	ctx      context.Context
	ctrl     *session.Controller
	view     *View
	audio    *sound.AudioManager
	settings session.Settings // 下一局使用的设置
	running  session.Settings // 当前这局的设置
	anim     *moveAnim        // 正在播放的走子动画
	holding  bool             // 动画期间已让控制器暂停电脑走子
	log      zerolog.Logger
}

// NewGameScreen wires a screen to a controller that reports to view.
func NewGameScreen(ctx context.Context, ctrl *session.Controller, view *View, am *sound.AudioManager, s session.Settings) *GameScreen {
	return &GameScreen{
		ctx:      ctx,
		ctrl:     ctrl,
		view:     view,
		audio:    am,
		settings: s,
		log:      log.With().Str("component", "ui").Logger(),
	}
}

// Update 每帧更新：音效、键盘、动画、鼠标
func (gs *GameScreen) Update() error {
	gs.audio.Update()
	for _, e := range gs.view.takeSounds() {
		gs.audio.Play(e)
	}
	if err := gs.handleKeys(); err != nil {
		return err
	}
	gs.stepAnimation(time.Now())
	gs.handleMouse()
	return nil
}

// Draw 每帧渲染：先清空背景，再绘制棋盘与状态栏
func (gs *GameScreen) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	f := gs.view.frame()
	if gs.anim != nil {
		f.board = gs.anim.board(time.Now())
	}
	gs.drawBoard(screen, f)
	gs.drawHeader(screen, f)
}

// Layout 定义窗口尺寸
func (gs *GameScreen) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// stepAnimation 依次播放排队的走子；有动画或音效时暂停控制器的延时，都结束再恢复
func (gs *GameScreen) stepAnimation(now time.Time) {
	if gs.anim != nil && (gs.anim.done(now) || gs.anim.ev.game != gs.view.current()) {
		gs.anim = nil
	}
	if gs.anim == nil {
		if ev, ok := gs.view.nextMove(); ok {
			gs.anim = &moveAnim{ev: ev, start: now}
			gs.hold(true)
			effect := sound.Split
			if ev.move.Kind == game.Transfer {
				effect = sound.Jump
			}
			if len(ev.captured) > 0 {
				gs.audio.PlaySequential(effect, sound.Capture)
			} else {
				gs.audio.Play(effect)
			}
		}
	}
	if gs.anim == nil && !gs.audio.Busy() {
		gs.hold(false)
	}
}

func (gs *GameScreen) hold(on bool) {
	if gs.holding == on {
		return
	}
	gs.holding = on
	var err error
	if on {
		err = gs.ctrl.PauseOn(gs.ctx)
	} else {
		err = gs.ctrl.PauseOff(gs.ctx)
	}
	if err != nil {
		gs.log.Error().Err(err).Bool("pause", on).Msg("pause request failed")
	}
}

// Start begins a game with the screen's current settings. The view clears
// itself when the controller reports the new game.
func (gs *GameScreen) Start() {
	// 控制器开局时会自行解除暂停
	gs.anim = nil
	gs.holding = false
	if err := gs.ctrl.Start(gs.ctx, gs.settings); err != nil {
		gs.log.Error().Err(err).Msg("start failed")
		return
	}
	gs.running = gs.settings
}

func (gs *GameScreen) reset() {
	gs.anim = nil
	gs.holding = false
	gs.view.reset()
	if err := gs.ctrl.Reset(gs.ctx); err != nil {
		gs.log.Error().Err(err).Msg("reset failed")
	}
	gs.running = session.Settings{}
}

// Run opens the window and blocks until it is closed.
func Run(gs *GameScreen, scale float64) error {
	ebiten.SetWindowSize(int(WindowWidth*scale), int(WindowHeight*scale))
	ebiten.SetWindowTitle("Hexxagon")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30) // 每秒逻辑更新次数限制为30
	if err := ebiten.RunGame(gs); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
