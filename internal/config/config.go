package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the editor preferences the playback controller reads
type Settings struct {
	FPS       int  `yaml:"fps"`
	VideoLoop bool `yaml:"videoLoop"`
}

// DefaultSettings returns the editor defaults
func DefaultSettings() Settings {
	return Settings{
		FPS:       30,
		VideoLoop: false,
	}
}

// FrameDuration is the length of one frame in seconds
func (s Settings) FrameDuration() float64 {
	if s.FPS <= 0 {
		return 0
	}
	return 1.0 / float64(s.FPS)
}

// FrameInterval is the wall-clock time between frames
func (s Settings) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(time.Second) / float64(s.FPS)))
}

func (s Settings) Validate() error {
	if s.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidSettings, s.FPS)
	}
	return nil
}

// Config is the full configuration of a headless editor session
type Config struct {
	SessionPath  string        `yaml:"session"`
	SessionDir   string        `yaml:"sessionDir"`
	VideoPath    string        `yaml:"video"`
	EndTime      float64       `yaml:"endTime"`
	Settings     Settings      `yaml:"settings"`
	Refresh      time.Duration `yaml:"refresh"`
	RunFor       time.Duration `yaml:"runFor"`
	ReportEvery  time.Duration `yaml:"reportEvery"`
	Seeks        []float64     `yaml:"seeks"`
	Autoplay     bool          `yaml:"autoplay"`
	LogLevel     string        `yaml:"logLevel"`
	LogEncoding  string        `yaml:"logEncoding"`
	BuildVersion string        `yaml:"-"`
}

// Default returns a Config with every field set to its default
func Default() Config {
	return Config{
		SessionDir:  "sessions",
		EndTime:     10,
		Settings:    DefaultSettings(),
		Refresh:     time.Second / 60,
		RunFor:      0,
		ReportEvery: time.Second,
		Autoplay:    true,
		LogLevel:    "info",
		LogEncoding: "console",
	}
}

func (c Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if c.EndTime < 0 || math.IsNaN(c.EndTime) || math.IsInf(c.EndTime, 0) {
		return fmt.Errorf("%w: end time must be a non-negative number, got %v", ErrInvalidSettings, c.EndTime)
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("%w: refresh must be positive, got %s", ErrInvalidSettings, c.Refresh)
	}
	if c.RunFor < 0 {
		return fmt.Errorf("%w: run duration must not be negative, got %s", ErrInvalidSettings, c.RunFor)
	}
	return nil
}

// LoadSettings reads Settings from a YAML file, missing keys keep their defaults
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s, s.Validate()
}

// LoadConfigFile overlays the YAML file at path onto cfg
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}
