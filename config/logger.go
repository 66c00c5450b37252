package config

import "go.uber.org/zap"

// NewLogger builds a console logger for dev and a JSON logger elsewhere.
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
