package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"development", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"production", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGet_BeforeInit(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get() returned nil before Init")
	}
}

func TestInit(t *testing.T) {
	if err := Init(&Config{Level: "info", ServiceName: "test", Development: false}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Get().Info("logger initialized")
	Sync()
}
