package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/penplot/internal/config"
	"github.com/five82/penplot/internal/lan"
	"github.com/five82/penplot/internal/plotter"
	"github.com/five82/penplot/internal/prefs"
	"github.com/five82/penplot/internal/state"
	"github.com/five82/penplot/internal/stroke"
	"github.com/five82/penplot/internal/ui"
)

// Options configure the penplot client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/penplot/prefs.toml
	Server     string // overrides the configured relay; "auto" discovers it
	PollMS     int    // sync interval in milliseconds; zero uses the config
	Discover   bool   // find the relay over mDNS
	ExportDir  string // where PDF exports are written; empty is the working directory
}

// discoverFunc finds a relay address on the LAN.
type discoverFunc func(ctx context.Context, timeout time.Duration) (string, error)

// Run boots the sketch pad until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	closeLog, err := openLog(cfg.LogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		log.Printf("load prefs: %v (using defaults)", err)
		userPrefs = prefs.Default()
	}

	server, err := resolveServer(ctx, cfg, lan.Discover)
	if err != nil {
		return err
	}

	clientID := uuid.NewString()
	client, err := plotter.NewClient(server, clientID)
	if err != nil {
		return fmt.Errorf("init relay client: %w", err)
	}
	log.Printf("penplot client %s using relay %s", clientID, client.BaseURL())

	dispatcher := plotter.NewDispatcher(client, 0)
	dispatcher.Start(ctx)

	store := &state.Store{Hold: cfg.NotResponding}
	engine := state.NewEngine(&stroke.Buffer{})

	uiOpts := ui.Options{
		Context:   ctx,
		Transport: client,
		Outbox:    dispatcher,
		Store:     store,
		Engine:    engine,
		Config:    &cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Server:    client.BaseURL(),
		ExportDir: opts.ExportDir,
	}
	return ui.Run(uiOpts)
}

// applyOverrides lets command line flags win over the config file.
func applyOverrides(cfg *config.Config, opts Options) {
	if server := strings.TrimSpace(opts.Server); server != "" {
		cfg.Server = server
	}
	if opts.Discover {
		cfg.Server = config.AutoServer
	}
	if opts.PollMS > 0 {
		cfg.PollInterval = time.Duration(opts.PollMS) * time.Millisecond
	}
}

// resolveServer returns the relay address, asking discover when the
// configuration says "auto".
func resolveServer(ctx context.Context, cfg config.Config, discover discoverFunc) (string, error) {
	if !cfg.Discover() {
		return cfg.Server, nil
	}
	addr, err := discover(ctx, lan.DefaultTimeout)
	if err != nil {
		return "", fmt.Errorf("discover relay: %w", err)
	}
	log.Printf("discovered relay at %s", addr)
	return addr, nil
}
