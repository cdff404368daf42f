package main

import (
	"bufio"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/spaceshooter/internal/assets"
	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/highscore"
	"github.com/tomz197/spaceshooter/internal/loop/client"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load settings", "err", err)
	}
	logger := config.NewLogger(os.Stderr, settings.LogLevel, "term")

	sprites, err := assets.Load(settings.AssetDir)
	if err != nil {
		logger.Fatal("failed to load sprites", "dir", settings.AssetDir, "err", err)
	}

	var sounds audio.Player = audio.Nop{}
	if settings.Audio.Enabled {
		bp, err := audio.NewBeepPlayer(assets.SoundFiles(settings.AssetDir), audio.Volumes{
			Laser:     settings.Audio.LaserVolume,
			Explosion: settings.Audio.ExplosionVolume,
			Music:     settings.Audio.MusicVolume,
		})
		if err != nil {
			logger.Fatal("failed to start audio", "err", err)
		}
		sounds = bp
	}
	defer sounds.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}

	// Log lines would tear the picture; keep only errors while playing.
	logger.SetLevel(log.ErrorLevel)

	c, err := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Game: game.Options{
			Sprites: sprites,
			Sounds:  sounds,
			Scores:  highscore.NewStore(settings.HighScorePath),
			Logger:  logger,
		},
		Logger: logger,
	})
	if err == nil {
		err = c.Run()
	}
	_ = term.Restore(fd, oldState)

	if err != nil {
		sounds.Close()
		logger.Fatal("game error", "err", err)
	}
}
