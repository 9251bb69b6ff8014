package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/utils"
)

// Config is the process configuration. Environment variables supply the
// base values; an optional YAML file named by CONFIG_PATH overlays them.
type Config struct {
	Port         string   `yaml:"port"`
	LogMode      string   `yaml:"log_mode"`
	JWTSecret    string   `yaml:"jwt_secret"`
	RedisAddr    string   `yaml:"redis_addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

func Load(log *logger.Logger) (*Config, error) {
	cfg := &Config{
		Port:      utils.GetEnv("PORT", "8080", log),
		LogMode:   utils.GetEnv("LOG_MODE", "development", log),
		JWTSecret: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		RedisAddr: utils.GetEnv("REDIS_ADDR", "", log),
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var overlay Config
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if overlay.Port != "" {
		cfg.Port = overlay.Port
	}
	if overlay.LogMode != "" {
		cfg.LogMode = overlay.LogMode
	}
	if overlay.JWTSecret != "" {
		cfg.JWTSecret = overlay.JWTSecret
	}
	if overlay.RedisAddr != "" {
		cfg.RedisAddr = overlay.RedisAddr
	}
	if len(overlay.AllowOrigins) > 0 {
		cfg.AllowOrigins = overlay.AllowOrigins
	}
	log.Info("Loaded config overlay", "path", path)
	return cfg, nil
}
