package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/MikeMC777/ordenes-mesa/internal/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		cfg  config.LogConfig
		want zapcore.Level
	}{
		{config.LogConfig{}, zapcore.InfoLevel},
		{config.LogConfig{Level: "DEBUG"}, zapcore.DebugLevel},
		{config.LogConfig{Level: "warn", Encoding: "console"}, zapcore.WarnLevel},
		{config.LogConfig{Level: "loud"}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.cfg)
		if err != nil {
			t.Fatalf("%+v: %v", tt.cfg, err)
		}
		if !l.Core().Enabled(tt.want) || (tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1)) {
			t.Errorf("%+v: level is not %s", tt.cfg, tt.want)
		}
	}
}
