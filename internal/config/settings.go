package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings is the runtime configuration shared by all commands.
// Values come from defaults, then an optional YAML file, then env vars.
type Settings struct {
	AssetDir      string        `yaml:"asset_dir"`
	HighScorePath string        `yaml:"highscore_path"`
	FontPath      string        `yaml:"font_path"` // Relative paths resolve against AssetDir
	LogLevel      string        `yaml:"log_level"`
	Audio         AudioSettings `yaml:"audio"`
	SSH           SSHSettings   `yaml:"ssh"`
	Web           WebSettings   `yaml:"web"`
}

// AudioSettings holds per-cue playback volumes in the range [0, 1].
type AudioSettings struct {
	Enabled         bool    `yaml:"enabled"`
	LaserVolume     float64 `yaml:"laser_volume"`
	ExplosionVolume float64 `yaml:"explosion_volume"`
	MusicVolume     float64 `yaml:"music_volume"`
}

// SSHSettings configures cmd/ssh.
type SSHSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
	MetricsAddr string `yaml:"metrics_addr"` // Empty disables the metrics endpoint
}

// WebSettings configures cmd/web.
type WebSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	DisplayHost string `yaml:"display_host"` // SSH host shown on the landing page
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		AssetDir:      ".",
		HighScorePath: "highscore.txt",
		FontPath:      filepath.Join("images", "font.ttf"),
		LogLevel:      "info",
		Audio: AudioSettings{
			Enabled:         true,
			LaserVolume:     0.1,
			ExplosionVolume: 0.1,
			MusicVolume:     0.01,
		},
		SSH: SSHSettings{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
			MetricsAddr: ":9222",
		},
		Web: WebSettings{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "your-server.com",
		},
	}
}

// Load builds the settings. If path is empty the SPACE_CONFIG env var is
// consulted; when neither names a file only defaults and env vars apply.
func Load(path string) (Settings, error) {
	s := Default()

	if path == "" {
		path = os.Getenv("SPACE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	s.applyEnv()
	return s, nil
}

// applyEnv overrides settings with environment variables.
func (s *Settings) applyEnv() {
	s.AssetDir = GetEnv("SPACE_ASSET_DIR", s.AssetDir)
	s.HighScorePath = GetEnv("SPACE_HIGHSCORE", s.HighScorePath)
	s.FontPath = GetEnv("SPACE_FONT", s.FontPath)
	s.LogLevel = GetEnv("SPACE_LOG_LEVEL", s.LogLevel)

	s.Audio.Enabled = GetEnvBool("SPACE_AUDIO", s.Audio.Enabled)
	s.Audio.LaserVolume = GetEnvFloat("SPACE_LASER_VOLUME", s.Audio.LaserVolume)
	s.Audio.ExplosionVolume = GetEnvFloat("SPACE_EXPLOSION_VOLUME", s.Audio.ExplosionVolume)
	s.Audio.MusicVolume = GetEnvFloat("SPACE_MUSIC_VOLUME", s.Audio.MusicVolume)

	s.SSH.Host = GetEnv("SSH_HOST", s.SSH.Host)
	s.SSH.Port = GetEnv("SSH_PORT", s.SSH.Port)
	s.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", s.SSH.HostKeyPath)
	s.SSH.MetricsAddr = GetEnv("METRICS_ADDR", s.SSH.MetricsAddr)

	s.Web.Host = GetEnv("WEB_HOST", s.Web.Host)
	s.Web.Port = GetEnv("WEB_PORT", s.Web.Port)
	s.Web.DisplayHost = GetEnv("SSH_DISPLAY_HOST", s.Web.DisplayHost)
}

// Font returns the font file path resolved against the asset directory.
func (s Settings) Font() string {
	if filepath.IsAbs(s.FontPath) {
		return s.FontPath
	}
	return filepath.Join(s.AssetDir, s.FontPath)
}
