package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog/log"

	"hexxagon/internal/config"
	"hexxagon/internal/session"
	"hexxagon/internal/sound"
	"hexxagon/internal/ui"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	play := flag.Bool("play", false, "start a game immediately")
	save := flag.Bool("save", false, "save the effective settings as the new defaults")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr, true)
	if *save {
		if err := cfg.Save(); err != nil {
			log.Fatal().Err(err).Msg("save config")
		}
	}
	settings, err := cfg.Settings()
	if err != nil {
		log.Fatal().Err(err).Msg("settings")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	view := ui.NewView()
	ctrl := session.New(view, session.Options{MoveDelay: cfg.MoveDelay()})
	go func() {
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("controller stopped")
		}
	}()

	var am *sound.AudioManager
	if cfg.Sound {
		am = sound.NewAudioManager(audio.NewContext(sound.SampleRate), true)
	} else {
		am = sound.NewAudioManager(nil, false)
	}

	screen := ui.NewGameScreen(ctx, ctrl, view, am, settings)
	if *play {
		screen.Start()
	}
	if err := ui.Run(screen, cfg.WindowScale); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}
