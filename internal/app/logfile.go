package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// openLog sends the standard logger to path while the TUI owns the
// terminal. The returned func restores stderr and closes the file.
func openLog(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
