package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"tipsy/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
		enabled zapcore.Level
	}{
		{"json", config.LogConfig{Level: "info", Format: FormatJSON}, false, zapcore.InfoLevel},
		{"console", config.LogConfig{Level: "debug", Format: FormatConsole}, false, zapcore.DebugLevel},
		{"empty format", config.LogConfig{Level: "warn"}, false, zapcore.WarnLevel},
		{"bad format", config.LogConfig{Level: "info", Format: "xml"}, true, 0},
		{"bad level", config.LogConfig{Level: "loud", Format: FormatJSON}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tt.enabled) {
				t.Errorf("level %s should be enabled", tt.enabled)
			}
			if tt.enabled > zapcore.DebugLevel && l.Core().Enabled(tt.enabled-1) {
				t.Errorf("level %s should be disabled", tt.enabled-1)
			}
		})
	}
}
