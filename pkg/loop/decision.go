// Package loop decides whether a branching workflow should re-enter its loop by comparing the
// line counts of the "input" and "output" files in a working directory.
package loop

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	InputFile  = "input"
	OutputFile = "output"
)

// Decision is the loop signal produced by Decide.
type Decision int

const (
	// Unset means no signal was produced. Callers keep whatever signal they held before.
	Unset Decision = iota
	Continue
	Stop
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unset"
	}
}

// Signal returns the boolean loop value and whether one was set at all.
func (d Decision) Signal() (loop bool, ok bool) {
	switch d {
	case Continue:
		return true, true
	case Stop:
		return false, true
	default:
		return false, false
	}
}

// Result describes a single decision.
type Result struct {
	Decision    Decision
	InputLines  int
	OutputLines int
	// Missing names the first file that was absent when Decision is Unset.
	Missing string
}

// Decide compares the line counts of dir/input and dir/output. The loop continues only when input
// has strictly more lines than output. If either file is absent, the result is Unset and no error is
// returned.
func Decide(dir string) (Result, error) {
	inputPath := filepath.Join(dir, InputFile)
	outputPath := filepath.Join(dir, OutputFile)

	for _, p := range []string{inputPath, outputPath} {
		ok, err := exists(p)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{Decision: Unset, Missing: filepath.Base(p)}, nil
		}
	}

	inLines, err := CountFileLines(inputPath)
	if err != nil {
		return Result{}, err
	}
	outLines, err := CountFileLines(outputPath)
	if err != nil {
		return Result{}, err
	}

	res := Result{Decision: Stop, InputLines: inLines, OutputLines: outLines}
	if inLines > outLines {
		res.Decision = Continue
	}
	return res, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &Error{Op: "stat", Path: path, Err: err}
	}
}

// CountFileLines opens path and counts its lines.
func CountFileLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &Error{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	n, err := CountLines(f)
	if err != nil {
		return n, &Error{Op: "read", Path: path, Err: err}
	}
	return n, nil
}

func (r Result) String() string {
	if r.Decision == Unset {
		return fmt.Sprintf("unset (%s missing)", r.Missing)
	}
	return fmt.Sprintf("%s (input=%d, output=%d)", r.Decision, r.InputLines, r.OutputLines)
}
