package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pressroom/internal/logger"
	"github.com/spf13/viper"
)

// DefaultSessionSecret is only meant for local development.
const DefaultSessionSecret = "pressroom-dev-secret"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string      `mapstructure:"listen_addr"`
	Port           string      `mapstructure:"port"`
	GinMode        string      `mapstructure:"gin_mode"`
	DatabaseDriver string      `mapstructure:"database_driver"`
	DatabasePath   string      `mapstructure:"database_path"`
	SessionName    string      `mapstructure:"session_name"`
	SessionSecret  string      `mapstructure:"session_secret"`
	PageSize       int         `mapstructure:"page_size"`
	Login          LoginConfig `mapstructure:"login"`
	Log            LogConfig   `mapstructure:"log"`
}

// LoginConfig 登录限流配置
type LoginConfig struct {
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// Load 从环境变量与可选的 config.yaml 读取应用配置，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	return load(viper.New(), true)
}

func load(v *viper.Viper, readFile bool) (AppConfig, error) {
	v.SetDefault("port", "8080")
	v.SetDefault("listen_addr", "")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", "pressroom.db")
	v.SetDefault("session_name", "pressroom_session")
	v.SetDefault("session_secret", DefaultSessionSecret)
	v.SetDefault("page_size", 6)
	v.SetDefault("login.rate_per_second", 0.5)
	v.SetDefault("login.burst", 5)
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "pressroom.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	// PORT=8080 / LOG_LEVEL=debug
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if readFile {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./etc")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return AppConfig{}, fmt.Errorf("read config file: %w", err)
			}
		} else {
			logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	if cfg.PageSize <= 0 {
		cfg.PageSize = 6
	}

	return cfg, nil
}
