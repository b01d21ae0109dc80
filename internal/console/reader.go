package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrInputClosed is returned when the input stream ends before a line is read.
var ErrInputClosed = errors.New("input closed")

// LineReader reads one line of text per call.
// Implementations fail on stream errors rather than returning empty lines forever.
type LineReader interface {
	ReadLine() (string, error)
}

type lineReader struct {
	r *bufio.Reader
}

// NewLineReader wraps r. A final line without a trailing newline is still returned.
func NewLineReader(r io.Reader) LineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err == nil {
		return line, nil
	}
	if errors.Is(err, io.EOF) {
		if line != "" {
			return line, nil
		}
		return "", ErrInputClosed
	}
	return "", fmt.Errorf("read line: %w", err)
}

// ScriptedReader replays a fixed list of lines, then reports ErrInputClosed.
type ScriptedReader struct {
	Lines []string
	next  int
}

func (s *ScriptedReader) ReadLine() (string, error) {
	if s.next >= len(s.Lines) {
		return "", ErrInputClosed
	}
	line := s.Lines[s.next]
	s.next++
	return line, nil
}

// Consumed reports how many lines have been read.
func (s *ScriptedReader) Consumed() int { return s.next }
