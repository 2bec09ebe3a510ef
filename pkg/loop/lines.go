package loop

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrInvalidText is returned when a file contains bytes that do not decode as UTF-8.
var ErrInvalidText = errors.New("data is not valid UTF-8 text")

// CountLines reads r to the end and returns the number of lines. Every '\n' ends a line and a
// trailing fragment without one counts as a final line, so an empty reader has zero lines.
func CountLines(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	n := 0
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if !utf8.Valid(line) {
				return n, ErrInvalidText
			}
			n++
		}
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}
