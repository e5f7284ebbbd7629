package cmd

import (
	"github.com/getlawrence/injectgen/internal/config"
	"github.com/getlawrence/injectgen/internal/logger"
)

// AppConfig holds all the shared configuration and dependencies
type AppConfig struct {
	Config *config.Config
	Logger logger.Logger
}

// NewAppConfig creates a new configuration instance
func NewAppConfig(cfg *config.Config, log logger.Logger) *AppConfig {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &AppConfig{
		Config: cfg,
		Logger: log,
	}
}
