package sinks_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavsurve/loopstep/pkg/log"
	"github.com/arnavsurve/loopstep/pkg/log/sinks"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.json")
	fileSink, err := sinks.NewFileSink(path)
	require.NoError(t, err)

	logger := log.NewLogger(log.NewRouter(fileSink))
	logger.Info().Str("step_id", "decide").Bool("loop", false).Msg("first")
	logger.Warn().Msg("second")
	require.NoError(t, fileSink.Close())
	require.NoError(t, fileSink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "first", entry["message"])
	assert.Equal(t, "decide", entry["step_id"])
	assert.Equal(t, false, entry["loop"])
}

func TestConsoleSink_Format(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}
	logger := log.NewLogger(log.NewRouter(sinks.NewConsoleSinkTo(out)))

	logger.Info().Msg("workflow started")
	logger.With().Str("step_id", "produce").Logger().
		Info().Str("source", "STDOUT").Str("shell_line", "hello").Msg("Script output")
	logger.Error().Err(assert.AnError).Msg("step failed")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[INFO ")
	assert.Contains(t, lines[0], "workflow: workflow started")
	assert.Contains(t, lines[1], "produce: [shell/STDOUT]: hello")
	assert.Contains(t, lines[2], "[ERROR ")
	assert.Contains(t, lines[2], "step failed: "+assert.AnError.Error())
}
