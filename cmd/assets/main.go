// Command assets writes placeholder sprites, sounds and a font so the game
// can run without the original art.
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/assets"
	"github.com/tomz197/spaceshooter/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML settings file")
	dir := flag.String("dir", "", "asset directory (default: asset_dir from settings)")
	font := flag.String("font", "", "font path (default: font_path from settings)")
	force := flag.Bool("force", false, "overwrite existing files")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load settings", "err", err)
	}
	logger := config.NewLogger(os.Stderr, settings.LogLevel, "assets")

	if *dir == "" {
		*dir = settings.AssetDir
	}
	if *font == "" {
		*font = settings.FontPath
	}

	written, err := assets.Generate(*dir, assets.GenerateOptions{FontPath: *font, Overwrite: *force})
	for _, path := range written {
		logger.Debug("wrote", "path", path)
	}
	if err != nil {
		logger.Fatal("failed to generate assets", "dir", *dir, "err", err)
	}
	logger.Info("placeholder assets ready", "dir", *dir, "written", len(written))
}
