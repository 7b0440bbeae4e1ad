package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) || logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected info level by default")
	}
	_ = logger.Sync()
}

func TestNewWithLevel(t *testing.T) {
	cases := []struct {
		level   string
		enabled zapcore.Level
		wantErr bool
	}{
		{level: "debug", enabled: zapcore.DebugLevel},
		{level: "WARN", enabled: zapcore.WarnLevel},
		{level: "", enabled: zapcore.InfoLevel},
		{level: "chatty", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.level, func(t *testing.T) {
			t.Parallel()
			logger, err := New(WithLevel(tc.level))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for level %q", tc.level)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !logger.Core().Enabled(tc.enabled) {
				t.Fatalf("expected %s to be enabled", tc.enabled)
			}
			if logger.Core().Enabled(tc.enabled - 1) {
				t.Fatalf("expected %s to be disabled", tc.enabled-1)
			}
		})
	}
}
