package logger

import (
	"testing"

	"github.com/dtrask/sift/pkg/config"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "test",
		LogLevel:  "debug",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("Expected logger to be created")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"DEBUG", "debug"},
		{"unknown", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		got := parseLogLevel(tt.input)
		if got.String() != tt.want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", tt.input, got.String(), tt.want)
		}
	}
}

func TestWithFields(t *testing.T) {
	cfg := &config.Config{Env: "test", LogLevel: "info", LogFormat: "json"}
	log := New(cfg)

	child := log.WithFields(map[string]interface{}{
		"symbol": "AAPL",
		"source": "finnhub",
	})
	if child == nil {
		t.Fatal("Expected child logger to be created")
	}

	// Child logging must not panic
	child.Info("quote fetched")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	if log == nil {
		t.Fatal("Expected nop logger to be created")
	}

	// All levels must be safe to call
	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")
}
