package handlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ErrLogNotFound is returned by ParseFile when the log file does not exist.
// No records accompany it.
var ErrLogNotFound = errors.New("log file not found")

const maxLineSize = 10 * 1024 * 1024

// ParseFile reads the whole log at path and extracts its action records.
func ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return nil, fmt.Errorf("read log: %w", err)
	}
	return ParseBytes(data)
}

// Parse reads r to the end and extracts its action records.
func Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes extracts action records from an in-memory log. Any failure
// aborts the whole pass; partial results are never returned.
func ParseBytes(data []byte) (res *Result, err error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("parse log: input is not valid UTF-8")
	}

	lines, err := splitLines(data)
	if err != nil {
		return nil, fmt.Errorf("parse log: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("parse log: unexpected failure: %v", r)
		}
	}()

	return NewScanner(lines).Run(), nil
}

func splitLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return lines, nil
}
