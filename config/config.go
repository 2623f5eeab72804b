// Package config loads and validates the runtime configuration. Values come
// from three layers, later layers winning: built-in defaults, an optional
// TOML file, and environment variables for credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// YouTube contains the channel listing configuration.
type YouTube struct {
	// APIKey enables the Data API lister. Empty falls back to the public
	// Atom feed (15 most recent uploads, no key needed).
	APIKey  string `toml:"api_key"`
	Channel string `toml:"channel"`
	// MaxLookback bounds how many recent uploads one run examines.
	MaxLookback int `toml:"max_lookback"`
	// RequestsPerSecond throttles Data API calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Paths contains the data directory and the files inside it.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	StateFile   string `toml:"state_file"`
	CatalogFile string `toml:"catalog_file"`
	FeedFile    string `toml:"feed_file"`
	AudioDir    string `toml:"audio_dir"`
}

// Audio contains extraction and probing settings.
type Audio struct {
	YtdlpPath      string `toml:"ytdlp_path"`
	FfprobePath    string `toml:"ffprobe_path"`
	BitrateKbps    int    `toml:"bitrate_kbps"`
	FetchTimeout   int    `toml:"fetch_timeout_seconds"`
	KeepLocalFiles bool   `toml:"keep_local_files"`
}

// B2 contains Backblaze B2 upload settings. Credentials come from the
// environment, never the file.
type B2 struct {
	KeyID   string `toml:"-"`
	AppKey  string `toml:"-"`
	Bucket  string `toml:"bucket"`
	BaseURL string `toml:"base_url"`
}

// Show contains the podcast channel metadata.
type Show struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Link        string `toml:"link"`
	Author      string `toml:"author"`
	Email       string `toml:"email"`
	Language    string `toml:"language"`
	Category    string `toml:"category"`
	ImageURL    string `toml:"image_url"`
	Explicit    bool   `toml:"explicit"`
}

// Retry contains backoff settings shared by the lister and the fetcher.
type Retry struct {
	MaxRetries       int `toml:"max_retries"`
	InitialBackoffMS int `toml:"initial_backoff_ms"`
	MaxBackoffMS     int `toml:"max_backoff_ms"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all runtime configuration.
type Config struct {
	YouTube YouTube `toml:"youtube"`
	Paths   Paths   `toml:"paths"`
	Audio   Audio   `toml:"audio"`
	B2      B2      `toml:"b2"`
	Show    Show    `toml:"show"`
	Retry   Retry   `toml:"retry"`
	Logging Logging `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		YouTube: YouTube{
			Channel:           defaultChannel,
			MaxLookback:       defaultMaxLookback,
			RequestsPerSecond: defaultRequestsPerSecond,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Audio: Audio{
			YtdlpPath:    defaultYtdlpPath,
			FfprobePath:  defaultFfprobePath,
			BitrateKbps:  defaultBitrateKbps,
			FetchTimeout: defaultFetchTimeoutSeconds,
		},
		B2: B2{
			Bucket:  defaultB2Bucket,
			BaseURL: defaultB2BaseURL,
		},
		Show: Show{
			Title:       defaultShowTitle,
			Description: defaultShowDescription,
			Link:        defaultShowLink,
			Author:      defaultShowAuthor,
			Email:       defaultShowEmail,
			Language:    defaultShowLanguage,
			Category:    defaultShowCategory,
		},
		Retry: Retry{
			MaxRetries:       defaultMaxRetries,
			InitialBackoffMS: defaultInitialBackoffMS,
			MaxBackoffMS:     defaultMaxBackoffMS,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults plus environment variables apply. The returned
// config has all paths expanded and derived file locations filled in.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if path != "" && !exists {
		return nil, fmt.Errorf("config file %s does not exist", resolved)
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays credentials and overrides from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("B2_APPLICATION_KEY_ID"); v != "" {
		c.B2.KeyID = v
	}
	if v := os.Getenv("B2_APPLICATION_KEY"); v != "" {
		c.B2.AppKey = v
	}
	if v := os.Getenv("B2_BUCKET"); v != "" {
		c.B2.Bucket = v
	}
	if v := os.Getenv("PODCAST_BASE_URL"); v != "" {
		c.B2.BaseURL = v
	}
}

// normalize expands paths and derives file locations from the data dir.
func (c *Config) normalize() error {
	dataDir, err := expandPath(c.Paths.DataDir)
	if err != nil {
		return err
	}
	c.Paths.DataDir = dataDir

	derive := func(current, name string) (string, error) {
		if current == "" {
			return filepath.Join(dataDir, name), nil
		}
		return expandPath(current)
	}
	if c.Paths.StateFile, err = derive(c.Paths.StateFile, "state.json"); err != nil {
		return err
	}
	if c.Paths.CatalogFile, err = derive(c.Paths.CatalogFile, "episodes.json"); err != nil {
		return err
	}
	if c.Paths.FeedFile, err = derive(c.Paths.FeedFile, "feed.xml"); err != nil {
		return err
	}
	if c.Paths.AudioDir, err = derive(c.Paths.AudioDir, "audio"); err != nil {
		return err
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.YouTube.Channel) == "" {
		return errors.New("youtube.channel must be set")
	}
	if c.YouTube.MaxLookback < 0 {
		return errors.New("youtube.max_lookback must not be negative")
	}
	if c.Audio.BitrateKbps <= 0 {
		return errors.New("audio.bitrate_kbps must be positive")
	}
	if c.Audio.FetchTimeout <= 0 {
		return errors.New("audio.fetch_timeout_seconds must be positive")
	}
	if c.Retry.MaxRetries < 0 {
		return errors.New("retry.max_retries must not be negative")
	}
	if strings.TrimSpace(c.Show.Title) == "" {
		return errors.New("show.title must be set")
	}
	if strings.TrimSpace(c.Show.Link) == "" {
		return errors.New("show.link must be set")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	return nil
}

// B2Enabled reports whether Backblaze credentials are present. Without them
// uploads fall back to the local filesystem store under the data dir.
func (c *Config) B2Enabled() bool {
	return c.B2.KeyID != "" && c.B2.AppKey != "" && c.B2.Bucket != ""
}

// FetchTimeout returns the audio fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Audio.FetchTimeout) * time.Second
}

// EnsureDirectories creates the data and audio directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.AudioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("courtcast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return abs, nil
}
