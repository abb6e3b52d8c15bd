package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/wacky-pong/internal/config"
	"github.com/Garsondee/wacky-pong/internal/game"
	"github.com/Garsondee/wacky-pong/internal/sound"
)

func main() {
	cfgPath := flag.String("config", "pong.toml", "TOML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	player, err := sound.NewPlayer(cfg.Audio)
	if err != nil {
		// Non-fatal, the game runs without sound.
		log.Printf("audio disabled: %v", err)
	}
	defer player.Close()

	g := game.New(cfg, player)
	ebiten.SetWindowTitle("Pong")
	ebiten.SetWindowSize(g.WindowSize(cfg.Scale))
	ebiten.SetTPS(cfg.TickRate)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
