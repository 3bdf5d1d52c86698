package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/penplot/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	server := flag.String("server", "", `relay address host:port, or "auto" (optional)`)
	pollMS := flag.Int("poll", 0, "sync interval in milliseconds (optional, defaults to 600)")
	discover := flag.Bool("discover", false, "find the relay on the local network")
	exportDir := flag.String("export-dir", "", "directory for PDF exports (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Server:     *server,
		Discover:   *discover,
		ExportDir:  *exportDir,
	}
	if poll := *pollMS; poll > 0 {
		opts.PollMS = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "penplot: %v\n", err)
		return 1
	}
	return 0
}
