package database

import (
	"testing"

	"gorm.io/gorm/logger"

	"github.com/vsinha/eventprocure/pkg/infrastructure/config"
)

func TestLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"error":  logger.Error,
		"warn":   logger.Warn,
		"":       logger.Warn,
		"info":   logger.Info,
		"debug":  logger.Info,
	}
	for in, want := range tests {
		if got := LogLevel(in); got != want {
			t.Errorf("LogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOpen_RequiresDSN(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{}); err == nil {
		t.Errorf("expected empty dsn to fail")
	}
}
