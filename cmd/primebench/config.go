package main

import (
	"os"
	"runtime"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"tallybench/core"
)

var errInvalidConfig = ewrap.New("invalid config")

type Config struct {
	Iterations   int         `yaml:"iterations"`
	Workers      int         `yaml:"workers"`
	SDMultiplier float64     `yaml:"sd_multiplier"`
	Store        StoreConfig `yaml:"store"`
	MetricsFile  string      `yaml:"metrics_file"`
	Log          LogConfig   `yaml:"log"`
}

type StoreConfig struct {
	Path         string `yaml:"path"`
	InMemory     bool   `yaml:"in_memory"`
	CacheEnabled bool   `yaml:"cache_enabled"`
	CacheMaxCost int64  `yaml:"cache_max_cost"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:   3,
		Workers:      runtime.GOMAXPROCS(0),
		SDMultiplier: 3,
		Store: StoreConfig{
			CacheEnabled: true,
			CacheMaxCost: 1 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads the YAML file at path over the defaults. Keys missing from
// the file keep their default value.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return config, ewrap.Wrapf(err, "read config %q", path)
	}
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return config, ewrap.Wrapf(err, "parse config %q", path)
	}
	return config, config.Validate()
}

func (config Config) Validate() error {
	switch {
	case config.Iterations < 0:
		return ewrap.Wrapf(errInvalidConfig, "iterations must not be negative, got %d", config.Iterations)
	case config.Workers < 1:
		return ewrap.Wrapf(errInvalidConfig, "workers must be positive, got %d", config.Workers)
	case config.SDMultiplier < 0:
		return ewrap.Wrapf(errInvalidConfig, "sd_multiplier must not be negative, got %g", config.SDMultiplier)
	}
	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return ewrap.Wrapf(errInvalidConfig, "log level %q", config.Log.Level)
	}
	return nil
}

// HasStore reports whether results should be kept in a database.
func (config Config) HasStore() bool {
	return config.Store.Path != "" || config.Store.InMemory
}

func (config Config) StoreConfig(logger *zap.Logger) *core.StoreConfig {
	return &core.StoreConfig{
		Path:         config.Store.Path,
		InMemory:     config.Store.InMemory,
		CacheEnabled: config.Store.CacheEnabled,
		CacheMaxCost: config.Store.CacheMaxCost,
		Logger:       logger,
	}
}

func newLogger(config LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, ewrap.Wrapf(errInvalidConfig, "log level %q", config.Level)
	}
	zapConfig := zap.NewProductionConfig()
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build()
}
