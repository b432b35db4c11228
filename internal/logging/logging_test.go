package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/go-session-server/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestNew_StaticFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", App: "sessions", Env: "TEST", Version: "1.2.3", Output: &buf})

	logger.Debug().Msg("hello")
	out := buf.String()
	require.Contains(t, out, `"service":"sessions"`)
	require.Contains(t, out, `"env":"TEST"`)
	require.Contains(t, out, `"version":"1.2.3"`)
	require.Contains(t, out, `"message":"hello"`)
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"nonsense", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(logging.Config{Level: tt.level, Output: &buf})

			logger.Debug().Msg("debug-line")
			logger.Info().Msg("info-line")
			require.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug-line")))
			require.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info-line")))
		})
	}
}
