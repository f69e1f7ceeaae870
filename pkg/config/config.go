// Package config loads slotboard settings from .slotboard.yaml and SLOTBOARD_*
// environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/slotboard/pkg/timeline"
)

const (
	// EnvConfigPath names a directory searched for .slotboard.yaml before ./.
	EnvConfigPath = "SLOTBOARD_CONFIG_PATH"

	DefaultPath      = "~/.slotboard.db"
	DefaultKey       = "schedule"
	DefaultSaveDelay = 500 * time.Millisecond
)

// Config is the resolved configuration.
type Config struct {
	Path      string
	Key       string
	Timeline  timeline.Config
	SaveDelay time.Duration
	ExportDir string
	Log       LogConfig

	// File is the config file that was read, empty when none was found.
	File string
}

// LogConfig selects the zerolog output.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// BasePath is the diskv directory holding the schedule blob.
func (c *Config) BasePath() string {
	return c.Path
}

// Load reads the config file (if any) and the environment.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(".slotboard") // .yaml is implicit
	v.SetEnvPrefix("SLOTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(EnvConfigPath); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	tl := timeline.Default()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("key", DefaultKey)
	v.SetDefault("start_hour", tl.StartHour)
	v.SetDefault("end_hour", tl.EndHour)
	v.SetDefault("slots_per_hour", tl.SlotsPerHour)
	v.SetDefault("rows", tl.Rows)
	v.SetDefault("save_delay", DefaultSaveDelay)
	v.SetDefault("export_dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// FromViper resolves a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	exportDir, err := homedir.Expand(v.GetString("export_dir"))
	if err != nil {
		return nil, err
	}
	logFile, err := homedir.Expand(v.GetString("log.file"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Path: path,
		Key:  strings.TrimSpace(v.GetString("key")),
		Timeline: timeline.Config{
			StartHour:    v.GetInt("start_hour"),
			EndHour:      v.GetInt("end_hour"),
			SlotsPerHour: v.GetInt("slots_per_hour"),
			Rows:         v.GetInt("rows"),
		},
		SaveDelay: v.GetDuration("save_delay"),
		ExportDir: exportDir,
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   logFile,
		},
		File: v.ConfigFileUsed(),
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.SaveDelay <= 0 {
		cfg.SaveDelay = DefaultSaveDelay
	}
	if err := cfg.Timeline.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
