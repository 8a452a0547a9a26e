// hexxagon-term plays Hexxagon in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"hexxagon/internal/config"
	"hexxagon/internal/game"
	"hexxagon/internal/session"
	"hexxagon/internal/term"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	play := flag.Bool("play", false, "start a game immediately")
	position := flag.String("board", "", "start from a position given as 61 digits (0 empty, 1/2 players, 3 hole)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// 日志写到文件，不干扰终端画面
	logFile, err := config.OpenLogFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()
	cfg.SetupLogging(logFile, false)

	settings, err := cfg.Settings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *position != "" {
		b, err := game.ParseBoard(*position)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		settings.Board = &b
		log.Info().Str("board", b.String()).Msg("custom start position")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tview.NewApplication()
	hint := tview.NewTextView()
	hint.SetBorder(true)
	hint.SetBorderPadding(0, 0, 1, 1)
	hint.SetTitle(" Status ")
	hint.SetTitleAlign(tview.AlignLeft)

	board := term.NewHexBoard(app, hint, settings)
	ctrl := session.New(board, session.Options{MoveDelay: cfg.MoveDelay()})
	board.Connect(ctx, ctrl)
	go func() {
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("controller stopped")
		}
	}()

	board.Box.SetBorder(true).SetTitle(" ⬡ hexxagon ")
	board.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			board.MoveCursor(term.Up)
		case tcell.KeyDown:
			board.MoveCursor(term.Down)
		case tcell.KeyLeft:
			board.MoveCursor(term.UpLeft)
		case tcell.KeyRight:
			board.MoveCursor(term.UpRight)
		case tcell.KeyEnter:
			board.Click()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'w':
				board.MoveCursor(term.Up)
			case 's':
				board.MoveCursor(term.Down)
			case 'a':
				board.MoveCursor(term.UpLeft)
			case 'z':
				board.MoveCursor(term.DownLeft)
			case 'd':
				board.MoveCursor(term.UpRight)
			case 'c':
				board.MoveCursor(term.DownRight)
			case ' ':
				board.Click()
			case '1':
				board.Start(session.HumanVsHuman)
			case '2':
				board.Start(session.HumanVsComputer)
			case '3':
				board.Start(session.ComputerVsComputer)
			case 'n':
				board.Start(session.ModeNone)
			case 'r':
				board.Reset()
			case 'f':
				board.ToggleFirst()
			case '[':
				board.CycleDepth(game.PlayerA)
			case ']':
				board.CycleDepth(game.PlayerB)
			case 'q':
				app.Stop()
				return nil
			}
		}
		return event
	})

	layout := tview.NewFlex().
		AddItem(board.Box, 0, 1, true).
		AddItem(hint, 48, 0, false)

	if *play {
		board.Start(session.ModeNone)
	}
	if err := app.SetRoot(layout, true).Run(); err != nil {
		log.Error().Err(err).Msg("terminal")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
