// Package config handles TOML-based configuration loading and validation.
// TOML is parsed as data only; no code execution is possible.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"mazflix/internal/httputil"
)

// APIKeyEnv overrides tmdb_api_key from the config file.
const APIKeyEnv = "TMDB_API_KEY"

// Config holds all application configuration.
type Config struct {
	TMDBAPIKey   string        `toml:"tmdb_api_key"`
	TMDBBaseURL  string        `toml:"tmdb_base_url"`
	ImageBaseURL string        `toml:"image_base_url"`
	HTTPTimeout  time.Duration `toml:"http_timeout"`
	// DetailCache is how many movie records to keep in memory per run.
	// Zero disables the cache.
	DetailCache int `toml:"detail_cache"`

	Player     string   `toml:"player"`
	PlayerArgs []string `toml:"player_args"`

	ControlsTimeout time.Duration `toml:"controls_timeout"`
	SkipSeconds     int           `toml:"skip_seconds"`
	VolumeStep      float64       `toml:"volume_step"`
	Volume          float64       `toml:"volume"`

	// Collection is the archive.org collection browsed by `mazflix library`.
	Collection string `toml:"collection"`
	// FallbackVideo plays a default film for movies with no known source.
	FallbackVideo bool `toml:"fallback_video"`
	// Videos maps TMDB movie IDs to extra media URLs.
	Videos map[string]string `toml:"videos"`

	Debug bool `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		TMDBBaseURL:     "https://api.themoviedb.org/3",
		ImageBaseURL:    "https://image.tmdb.org/t/p/",
		HTTPTimeout:     30 * time.Second,
		Player:          "mpv",
		ControlsTimeout: 3 * time.Second,
		SkipSeconds:     10,
		VolumeStep:      0.1,
		Volume:          1,
		Collection:      "publicmovies212",
		FallbackVideo:   true,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mazflix"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mazflix"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults, then applies
// environment overrides. A missing config file yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		cfg.TMDBAPIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	if err := httputil.ValidateURL(c.TMDBBaseURL); err != nil {
		return fmt.Errorf("tmdb_base_url: %w", err)
	}
	if err := httputil.ValidateURL(c.ImageBaseURL); err != nil {
		return fmt.Errorf("image_base_url: %w", err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.DetailCache < 0 || c.DetailCache > 10000 {
		return fmt.Errorf("detail_cache %d out of range (0-10000)", c.DetailCache)
	}

	if c.ControlsTimeout < 500*time.Millisecond || c.ControlsTimeout > time.Minute {
		return fmt.Errorf("controls_timeout %s out of range (500ms-1m)", c.ControlsTimeout)
	}
	if c.SkipSeconds < 1 || c.SkipSeconds > 600 {
		return fmt.Errorf("skip_seconds %d out of range (1-600)", c.SkipSeconds)
	}
	if c.VolumeStep <= 0 || c.VolumeStep > 1 {
		return fmt.Errorf("volume_step %g out of range (0-1]", c.VolumeStep)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume %g out of range [0-1]", c.Volume)
	}

	if c.Collection == "" {
		return fmt.Errorf("collection cannot be empty")
	}
	if _, err := c.VideoOverrides(); err != nil {
		return err
	}

	return nil
}

// VideoOverrides parses the [videos] table.
func (c *Config) VideoOverrides() (map[int]string, error) {
	out := make(map[int]string, len(c.Videos))
	for key, u := range c.Videos {
		if err := httputil.ValidateNumericID(key); err != nil {
			return nil, fmt.Errorf("videos: %w", err)
		}
		if err := httputil.ValidateMediaURL(u); err != nil {
			return nil, fmt.Errorf("videos.%s: %w", key, err)
		}
		id, _ := strconv.Atoi(key)
		out[id] = u
	}
	return out, nil
}

// SkipStep returns the skip distance as a duration.
func (c *Config) SkipStep() time.Duration {
	return time.Duration(c.SkipSeconds) * time.Second
}

// LogPath returns the path to the debug log file.
func LogPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "mazflix", "mazflix.log"), nil
}
