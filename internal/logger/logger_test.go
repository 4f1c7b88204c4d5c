package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantJSON  bool
	}{
		{name: "json info", level: "info", format: "json", wantDebug: false, wantJSON: true},
		{name: "text debug", level: "debug", format: "text", wantDebug: true, wantJSON: false},
		{name: "unknown level falls back to info", level: "verbose", format: "json", wantDebug: false, wantJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newLogger(&buf, tt.level, tt.format)

			log.Debug("debug line")
			log.Info("info line", "k", "v")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			require.Contains(t, out, "info line")

			lines := strings.Split(strings.TrimSpace(out), "\n")
			last := lines[len(lines)-1]
			assert.Equal(t, tt.wantJSON, json.Valid([]byte(last)))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcd...", truncateString("abcdefghij", 7))
	assert.Equal(t, "...", truncateString("abcdefghij", 2))
}
