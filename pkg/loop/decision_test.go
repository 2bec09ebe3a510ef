package loop_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavsurve/loopstep/pkg/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDecide_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		output      string
		expected    loop.Decision
		inputLines  int
		outputLines int
	}{
		{
			name:        "more input lines continues",
			input:       "a\nb\nc\n",
			output:      "x\n",
			expected:    loop.Continue,
			inputLines:  3,
			outputLines: 1,
		},
		{
			name:        "equal counts stop",
			input:       "a\nb\n",
			output:      "x\ny\n",
			expected:    loop.Stop,
			inputLines:  2,
			outputLines: 2,
		},
		{
			name:     "both empty stop",
			expected: loop.Stop,
		},
		{
			name:        "fewer input lines stop",
			input:       "a\n",
			output:      "x\ny\nz\n",
			expected:    loop.Stop,
			inputLines:  1,
			outputLines: 3,
		},
		{
			name:        "unterminated last line counts",
			input:       "a\nb",
			output:      "x\n",
			expected:    loop.Continue,
			inputLines:  2,
			outputLines: 1,
		},
		{
			name:        "blank lines count like text",
			input:       "one\ntwo\nthree\nfour\nfive\n",
			output:      "\n\n\n\n\n",
			expected:    loop.Stop,
			inputLines:  5,
			outputLines: 5,
		},
		{
			name:        "crlf terminators",
			input:       "a\r\nb\r\n",
			output:      "x\r\n",
			expected:    loop.Continue,
			inputLines:  2,
			outputLines: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, loop.InputFile, tt.input)
			writeFile(t, dir, loop.OutputFile, tt.output)

			res, err := loop.Decide(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Decision)
			assert.Equal(t, tt.inputLines, res.InputLines)
			assert.Equal(t, tt.outputLines, res.OutputLines)

			signal, ok := res.Decision.Signal()
			assert.True(t, ok)
			assert.Equal(t, tt.expected == loop.Continue, signal)
		})
	}
}

// A missing file leaves the signal unset rather than deciding to stop.
func TestDecide_MissingFileIsNoop(t *testing.T) {
	t.Run("output missing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, loop.InputFile, "a\nb\n")

		res, err := loop.Decide(dir)
		require.NoError(t, err)
		assert.Equal(t, loop.Unset, res.Decision)
		assert.Equal(t, loop.OutputFile, res.Missing)

		_, ok := res.Decision.Signal()
		assert.False(t, ok)
	})

	t.Run("input missing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, loop.OutputFile, "a\n")

		res, err := loop.Decide(dir)
		require.NoError(t, err)
		assert.Equal(t, loop.Unset, res.Decision)
		assert.Equal(t, loop.InputFile, res.Missing)
	})

	t.Run("directory missing", func(t *testing.T) {
		res, err := loop.Decide(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Equal(t, loop.Unset, res.Decision)
	})
}

func TestDecide_UnreadableFileIsIOError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, loop.InputFile), 0755))
	writeFile(t, dir, loop.OutputFile, "a\n")

	_, err := loop.Decide(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, loop.ErrIO))

	var lerr *loop.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, filepath.Join(dir, loop.InputFile), lerr.Path)
}

func TestDecide_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, loop.InputFile, "a\n")
	writeFile(t, dir, loop.OutputFile, "a\n")
	require.NoError(t, os.Chmod(filepath.Join(dir, loop.OutputFile), 0000))

	_, err := loop.Decide(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, loop.ErrIO)
	assert.Contains(t, err.Error(), "open")
}

func TestDecide_InvalidText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, loop.InputFile, "a\n")
	writeFile(t, dir, loop.OutputFile, string([]byte{0xff, 0xfe, '\n'}))

	_, err := loop.Decide(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, loop.ErrIO)
	assert.ErrorIs(t, err, loop.ErrInvalidText)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"", 0},
		{"\n", 1},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\n\n\nb\n", 4},
		{strings.Repeat("x", 100000) + "\n" + "y\n", 2},
	}

	for _, tt := range tests {
		n, err := loop.CountLines(strings.NewReader(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, n, "input %.20q", tt.in)
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "unset (output missing)", loop.Result{Missing: "output"}.String())
	assert.Equal(t, "continue (input=3, output=1)",
		loop.Result{Decision: loop.Continue, InputLines: 3, OutputLines: 1}.String())
	assert.Equal(t, "stop", loop.Stop.String())
}
