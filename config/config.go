package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "TGXFER"

	DefaultSessionDir             = "session"
	DefaultDownloadDir            = "downloads"
	DefaultPollInterval           = 500 * time.Millisecond
	DefaultMaxConcurrentTransfers = 4
	DefaultLogLevel               = "info"
)

var (
	ErrMissingCredentials = errors.New("app id, app hash and bot token are required")
	ErrInvalidInterval    = errors.New("poll interval must be positive")
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)

type Config struct {
	AppID    int
	AppHash  string
	BotToken string

	SessionDir  string
	DownloadDir string

	PollInterval           time.Duration
	MaxConcurrentTransfers int

	LogLevel string
	Debug    bool
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"session-dir":   "session_dir",
	"download-dir":  "download_dir",
	"poll-interval": "poll_interval",
	"max-transfers": "max_concurrent_transfers",
	"log-level":     "log_level",
	"debug":         "debug",
}

// Load reads TGXFER_* environment variables and, when path is set, a config
// file. Environment values win over the file.
func Load(path string) (*Config, error) {
	return load(viper.New(), path, nil)
}

// LoadWithFlags is Load with flags bound on top. Only flags set on the command
// line override other sources.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	return load(viper.New(), path, flags)
}

func load(v *viper.Viper, path string, flags *pflag.FlagSet) (*Config, error) {
	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("session_dir", DefaultSessionDir)
	v.SetDefault("download_dir", DefaultDownloadDir)
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("max_concurrent_transfers", DefaultMaxConcurrentTransfers)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("debug", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		AppID:                  v.GetInt("app_id"),
		AppHash:                v.GetString("app_hash"),
		BotToken:               v.GetString("bot_token"),
		SessionDir:             v.GetString("session_dir"),
		DownloadDir:            v.GetString("download_dir"),
		PollInterval:           v.GetDuration("poll_interval"),
		MaxConcurrentTransfers: v.GetInt("max_concurrent_transfers"),
		LogLevel:               v.GetString("log_level"),
		Debug:                  v.GetBool("debug"),
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AppID == 0 || c.AppHash == "" || c.BotToken == "" {
		return ErrMissingCredentials
	}
	if c.PollInterval <= 0 {
		return ErrInvalidInterval
	}
	if c.MaxConcurrentTransfers <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}
