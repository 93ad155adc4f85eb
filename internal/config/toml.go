// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/qwerty/internal/model"
)

// Defaults for practice settings.
const (
	DefaultChapterLength = 20
	DefaultPlaceholder   = "_"
	DefaultWrongDelayMs  = 300
	DefaultRemoteSubject = "qwerty.keys"
	DefaultLogLevel      = "info"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Audio    AudioConfig    `toml:"audio"`
	Log      LogConfig      `toml:"log"`
	Remote   RemoteConfig   `toml:"remote"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Dict            *string `toml:"dict"`
	Chapter         *int    `toml:"chapter"`
	ChapterLength   *int    `toml:"chapter-length"`
	Placeholder     *string `toml:"placeholder"`
	WrongDelayMs    *int    `toml:"wrong-delay-ms"`
	HideWord        *bool   `toml:"hide-word"`
	ReadOnly        *bool   `toml:"read-only"`
	PlaceholderFill *bool   `toml:"placeholder-fill"`
}

// AudioConfig maps cue and pronunciation settings.
type AudioConfig struct {
	Cues         *bool   `toml:"cues"`
	ClickCmd     *string `toml:"click-cmd"`
	SuccessCmd   *string `toml:"success-cmd"`
	WrongCmd     *string `toml:"wrong-cmd"`
	Pronounce    *bool   `toml:"pronounce"`
	PronounceCmd *string `toml:"pronounce-cmd"`
}

// LogConfig maps log settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// RemoteConfig maps the NATS input feed settings.
type RemoteConfig struct {
	URL     *string `toml:"url"`
	Subject *string `toml:"subject"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() model.Settings {
	return model.Settings{
		Placeholder:   DefaultPlaceholder,
		ChapterLength: DefaultChapterLength,
		WrongDelay:    DefaultWrongDelayMs * time.Millisecond,
	}
}

// Settings overlays the practice values of the file on base. Values are
// not validated here; the session rejects out-of-domain snapshots.
func (c FileConfig) Settings(base model.Settings) model.Settings {
	out := base
	if c.Practice.Placeholder != nil {
		out.Placeholder = *c.Practice.Placeholder
	}
	if c.Practice.ChapterLength != nil {
		out.ChapterLength = *c.Practice.ChapterLength
	}
	if c.Practice.WrongDelayMs != nil {
		out.WrongDelay = time.Duration(*c.Practice.WrongDelayMs) * time.Millisecond
	}
	return out
}
