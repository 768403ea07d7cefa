package logging

import (
	"testing"

	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "debug", false},
		{"", "info", false},
		{"warn", "warn", false},
		{"error", "error", false},
		{"verbose", "info", true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got.String() != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Errorf("expected info to be disabled at warn level")
	}
	if !logger.Core().Enabled(zap.ErrorLevel) {
		t.Errorf("expected error to be enabled at warn level")
	}

	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Errorf("expected unknown level to fail")
	}
}
