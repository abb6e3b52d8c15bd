package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/wacky-pong/internal/config"
	"github.com/Garsondee/wacky-pong/internal/sim"
	"github.com/Garsondee/wacky-pong/internal/sound"
	"github.com/Garsondee/wacky-pong/internal/term"
)

func main() {
	cfgPath := flag.String("config", "pong.toml", "TOML config file (optional)")
	logPath := flag.String("log", "", "write the event log to this file")
	flag.Parse()

	if err := run(*cfgPath, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "termpong: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, logPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// stderr belongs to the terminal UI while the game is up.
	log.SetOutput(io.Discard)
	var events *sim.SimLog
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
		events = sim.NewSimLog(false)
		defer func() { fmt.Fprint(f, events.Format()) }()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	player, err := sound.NewPlayer(cfg.Audio)
	if err != nil {
		log.Printf("audio disabled: %v", err)
	}
	defer player.Close()

	gctx := cfg.Context()
	var rec sim.Recorder
	if events != nil {
		rec = events
	}
	s := sim.New(gctx, rec)
	log.Printf("pong: run %s seed %d", gctx.RunID, gctx.Seed)

	fe := term.New(screen, gctx.Width, player)
	fe.Start()

	pace := sim.NewTickerPacer(gctx.TickBudget())
	defer pace.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.Run(ctx, fe, fe, pace); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
