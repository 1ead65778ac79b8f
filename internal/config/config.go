package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env             string `mapstructure:"env"`
	Port            int    `mapstructure:"port"`
	ProxyHeader     string `mapstructure:"proxy_header"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
}

type MediaConf struct {
	UploadsDir           string `mapstructure:"uploads_dir"`
	SoundsDir            string `mapstructure:"sounds_dir"`
	MaxUploadMB          int    `mapstructure:"max_upload_mb"`
	MaxSoundMB           int    `mapstructure:"max_sound_mb"`
	RetentionSeconds     int    `mapstructure:"retention_seconds"`
	SweepIntervalSeconds int    `mapstructure:"sweep_interval_seconds"`
}

type WSConf struct {
	PingIntervalSeconds  int `mapstructure:"ping_interval_seconds"`
	WriteDeadlineSeconds int `mapstructure:"write_deadline_seconds"`
	QueueSize            int `mapstructure:"queue_size"`
}

type JWTConf struct {
	// Secret enables bearer-token protection of the upload routes when
	// non-empty.
	Secret string `mapstructure:"secret"`
}

type Config struct {
	App   AppConf   `mapstructure:"app"`
	Media MediaConf `mapstructure:"media"`
	WS    WSConf    `mapstructure:"ws"`
	JWT   JWTConf   `mapstructure:"jwt"`
	Log   struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	Retention       time.Duration
	SweepInterval   time.Duration
	PingInterval    time.Duration
	WriteDeadline   time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	MaxSoundBytes   int64
}

// Load reads the YAML file at path (a missing file is fine: defaults
// plus environment variables apply) and derives the duration and byte
// settings.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Port == 0 {
		c.App.Port = 3030
	}
	if c.App.ShutdownSeconds == 0 {
		c.App.ShutdownSeconds = 15
	}
	if c.Media.UploadsDir == "" {
		c.Media.UploadsDir = "uploads"
	}
	if c.Media.SoundsDir == "" {
		c.Media.SoundsDir = "sounds"
	}
	if c.Media.MaxUploadMB == 0 {
		c.Media.MaxUploadMB = 100
	}
	if c.Media.MaxSoundMB == 0 {
		c.Media.MaxSoundMB = 50
	}
	if c.Media.RetentionSeconds == 0 {
		c.Media.RetentionSeconds = 10
	}
	if c.Media.SweepIntervalSeconds == 0 {
		c.Media.SweepIntervalSeconds = 1
	}
	if c.WS.PingIntervalSeconds == 0 {
		c.WS.PingIntervalSeconds = 25
	}
	if c.WS.WriteDeadlineSeconds == 0 {
		c.WS.WriteDeadlineSeconds = 10
	}
	if c.WS.QueueSize == 0 {
		c.WS.QueueSize = 32
	}

	c.Retention = time.Duration(c.Media.RetentionSeconds) * time.Second
	c.SweepInterval = time.Duration(c.Media.SweepIntervalSeconds) * time.Second
	c.PingInterval = time.Duration(c.WS.PingIntervalSeconds) * time.Second
	c.WriteDeadline = time.Duration(c.WS.WriteDeadlineSeconds) * time.Second
	c.ShutdownTimeout = time.Duration(c.App.ShutdownSeconds) * time.Second
	c.MaxUploadBytes = int64(c.Media.MaxUploadMB) << 20
	c.MaxSoundBytes = int64(c.Media.MaxSoundMB) << 20
}

// Default returns a config with every default applied, for tests and
// for running without a config file.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}
