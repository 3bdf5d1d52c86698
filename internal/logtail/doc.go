// Package logtail reads the tail of the client log for the TUI log pane.
//
// # Overview
//
// While the TUI owns the terminal, the client logger writes to
// <log_dir>/penplot.log. Pressing L shows the last lines of that file.
//
// # Reading Log Files
//
// Read uses a ring buffer to extract the last maxLines from a file:
//
//   - Scans the file sequentially (one pass)
//   - Uses O(maxLines) memory, not O(file size)
//   - Returns lines in chronological order
//
// A non-positive maxLines returns every line. A missing file is not an
// error; the pane simply shows nothing yet.
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//
// # Severity
//
// Classify maps a line to LevelInfo, LevelWarn or LevelError from its
// wording so the pane can tint failures. The client logger is the stdlib
// log package, so there is no level field to parse.
package logtail
