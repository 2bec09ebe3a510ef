package sinks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/arnavsurve/loopstep/pkg/log"
	"github.com/arnavsurve/loopstep/pkg/types"
	"github.com/fatih/color"
)

var levelColors = map[types.Level]*color.Color{
	types.DebugLevel: color.New(color.FgCyan),
	types.InfoLevel:  color.New(color.FgGreen),
	types.WarnLevel:  color.New(color.FgYellow),
	types.ErrorLevel: color.New(color.FgRed),
	types.FatalLevel: color.New(color.FgRed, color.Bold),
}

// ConsoleSink prints one colored line per event.
type ConsoleSink struct {
	out io.Writer
}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{out: os.Stdout}
}

// NewConsoleSinkTo writes to w instead of stdout.
func NewConsoleSinkTo(w io.Writer) *ConsoleSink {
	return &ConsoleSink{out: w}
}

func (c *ConsoleSink) Write(event *log.LogEvent) error {
	stepID := getStringField(event.Fields, "step_id")
	source := getStringField(event.Fields, "source")
	shellLine := getStringField(event.Fields, "shell_line")
	scriptLine := getStringField(event.Fields, "script_line")
	errorMsg := getStringField(event.Fields, "error")

	levelFmt := color.New(color.FgWhite).SprintFunc()
	if lc, ok := levelColors[event.Level]; ok {
		levelFmt = lc.SprintFunc()
	}

	stepLabel := stepID
	if stepLabel == "" {
		stepLabel = "workflow"
	}

	prefix := fmt.Sprintf("[%s %s] %s: ",
		levelFmt(strings.ToUpper(levelToString(event.Level))),
		event.Timestamp.Format(time.RFC3339),
		color.CyanString(stepLabel),
	)

	var output string
	switch {
	case shellLine != "" && source != "":
		output = fmt.Sprintf("%s[shell/%s]: %s", prefix, color.BlueString(source), shellLine)
	case scriptLine != "":
		output = fmt.Sprintf("%s[script]: %s", prefix, scriptLine)
	case event.Message != "" && errorMsg != "":
		output = fmt.Sprintf("%s%s: %s", prefix, event.Message, errorMsg)
	case errorMsg != "":
		output = prefix + errorMsg
	case event.Message != "":
		output = prefix + event.Message
	default:
		fieldsStr, _ := json.MarshalIndent(event.Fields, "", "  ")
		output = prefix + string(fieldsStr)
	}
	_, err := fmt.Fprintln(c.out, output)
	return err
}

func (c *ConsoleSink) Close() error {
	return nil
}

// getStringField returns fields[key] if it is a string.
func getStringField(fields map[string]any, key string) string {
	if strVal, ok := fields[key].(string); ok {
		return strVal
	}
	return ""
}

func levelToString(l types.Level) string {
	switch l {
	case types.DebugLevel:
		return "debug"
	case types.InfoLevel:
		return "info"
	case types.WarnLevel:
		return "warn"
	case types.ErrorLevel:
		return "error"
	case types.FatalLevel:
		return "fatal"
	default:
		return "unknown"
	}
}
