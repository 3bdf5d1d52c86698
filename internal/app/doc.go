// Package app wires the penplot client together.
//
// Run is the composition root:
//
//  1. Load config.toml and apply command line overrides
//  2. Redirect the standard logger to the client log file
//  3. Load prefs.toml
//  4. Resolve the relay address, over mDNS when the server is "auto"
//  5. Create the relay client with a fresh client ID and start the
//     point dispatcher
//  6. Create the sync engine and status store and run the TUI (blocks)
//
// Configuration errors and a failed discovery are fatal. Everything after
// startup is recoverable: transport failures only change the status line.
package app
