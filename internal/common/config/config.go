package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

// EnvConfigFile указывает на необязательный YAML. Он перекрывает defaults,
// env перекрывает его.
const EnvConfigFile = "PLANVIEW_CONFIG"

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
	File   string `yaml:"file"`
}

type Config struct {
	Port          string        `yaml:"port"`
	Environment   string        `yaml:"env"`
	ReadTimeout   int           `yaml:"read_timeout"`
	WriteTimeout  int           `yaml:"write_timeout"`
	BodyLimitMB   int           `yaml:"body_limit_mb"`
	TextureDBPath string        `yaml:"texture_db_path"`
	StaticRoot    string        `yaml:"static_root"`
	StaticURL     string        `yaml:"static_url"`
	Logging       LoggingConfig `yaml:"logging"`
}

func Defaults() Config {
	return Config{
		Port:          "3000",
		Environment:   "development",
		ReadTimeout:   10,
		WriteTimeout:  10,
		BodyLimitMB:   8,
		TextureDBPath: "data/db/textures.db",
		StaticRoot:    "data/static",
		StaticURL:     "/static",
		Logging:       LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load собирает конфигурацию: defaults, затем YAML из PLANVIEW_CONFIG, затем env.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	// ключи, которых нет в файле, остаются из defaults
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENV", c.Environment)
	c.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.WriteTimeout)
	c.BodyLimitMB = getEnvAsInt("BODY_LIMIT_MB", c.BodyLimitMB)
	c.TextureDBPath = getEnv("TEXTURE_DB_PATH", c.TextureDBPath)
	c.StaticRoot = getEnv("STATIC_ROOT", c.StaticRoot)
	c.StaticURL = getEnv("STATIC_URL", c.StaticURL)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
