package sinks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arnavsurve/loopstep/pkg/log"
)

// FileSink writes events as JSON lines.
type FileSink struct {
	file *os.File
}

// NewFileSink creates (or truncates) path, creating its parent directory if needed.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory for %q: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f}, nil
}

func (fs *FileSink) Write(event *log.LogEvent) error {
	entry := make(map[string]any, len(event.Fields)+3)
	for k, v := range event.Fields {
		entry[k] = v
	}
	entry["level"] = levelToString(event.Level)
	entry["time"] = event.Timestamp
	entry["message"] = event.Message

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log event for file sink: %w", err)
	}
	if _, err := fs.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to file sink: %w", err)
	}
	return nil
}

func (fs *FileSink) Close() error {
	if fs.file == nil {
		return nil
	}
	err := fs.file.Close()
	fs.file = nil
	return err
}
