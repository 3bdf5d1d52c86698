package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no
// lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is the severity guessed from a client log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Classify guesses the severity of a line written by the client logger.
// Lines mentioning a failure are errors; dropped or queued work is a warning.
func Classify(line string) Level {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return LevelError
	case strings.Contains(lower, "dropped"), strings.Contains(lower, "queue full"),
		strings.Contains(lower, "warn"):
		return LevelWarn
	}
	return LevelInfo
}
