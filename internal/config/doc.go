// Package config loads the penplot client configuration file.
//
// # Overview
//
// The client reads a small TOML file for the relay address, the logical
// canvas size and sync timings. Everything is optional; a missing file is
// not an error and yields Default().
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/penplot/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing, empty or non-positive, use defaults
//
// # Default Values
//
//   - Relay: 127.0.0.1:8080
//   - Canvas: 650 x 650 logical pixels
//   - Poll interval: 600ms (floored at 50ms)
//   - Not responding notice: 2s
//   - Log directory: ~/.local/share/penplot/logs
//   - Client log: <log_dir>/penplot.log
//
// # TOML Format
//
//	server = "192.168.1.122:8080"   # or "auto" to browse mDNS
//	canvas_width = 650
//	canvas_height = 650
//	poll_interval_ms = 600
//	not_responding_ms = 2000
//	log_dir = "~/.local/share/penplot/logs"
//
// Tilde expansion is performed for the config path and log_dir.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
//	if cfg.Discover() {
//		// browse for _penplot._tcp
//	}
//	client, err := plotter.NewClient(cfg.Server, id)
//
// The config package is stateless: it loads once at startup and returns a
// Config value.
package config
