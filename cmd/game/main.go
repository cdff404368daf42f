package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/assets"
	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/desktop"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/highscore"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load settings", "err", err)
	}
	logger := config.NewLogger(os.Stderr, settings.LogLevel, "game")

	sprites, err := assets.Load(settings.AssetDir)
	if err != nil {
		logger.Fatal("failed to load sprites", "dir", settings.AssetDir, "err", err)
	}

	var sounds audio.Player = audio.Nop{}
	if settings.Audio.Enabled {
		s, err := desktop.NewSound(assets.SoundFiles(settings.AssetDir), audio.Volumes{
			Laser:     settings.Audio.LaserVolume,
			Explosion: settings.Audio.ExplosionVolume,
			Music:     settings.Audio.MusicVolume,
		})
		if err != nil {
			logger.Fatal("failed to load sounds", "err", err)
		}
		sounds = s
	}

	g, err := desktop.New(desktop.Options{
		Game: game.Options{
			Sprites: sprites,
			Sounds:  sounds,
			Scores:  highscore.NewStore(settings.HighScorePath),
			Logger:  logger,
		},
		FontPath: settings.Font(),
	})
	if err != nil {
		logger.Fatal("failed to start game", "err", err)
	}

	runErr := g.Run()
	if err := sounds.Close(); err != nil {
		logger.Warn("failed to close audio", "err", err)
	}
	if runErr != nil {
		logger.Fatal("game error", "err", runErr)
	}
}
