// Package ui provides the penplot terminal sketch pad.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Its Update loop is the single logical
// thread every event is multiplexed onto: mouse samples, key presses, sync
// ticks and sync replies all arrive as messages, so the sync engine and the
// local stroke buffer are never touched concurrently.
//
// # Package Structure
//
//   - app.go: Model, Options, key handling and Run
//   - canvas.go: pointer handling, canvas layout and braille rendering
//   - sync.go: the multi-client tick loop and sync replies
//   - header.go: status bar and command bar
//   - logs.go: the client log pane
//   - help.go, keys.go, theme.go, style_helpers.go: presentation
//
// # Event Flow
//
//  1. A left press, drag and release become Start, Mid and End samples.
//  2. Each sample updates the coordinate readout and is buffered locally; the
//     samples the decimator keeps go to the Outbox in draw order.
//  3. An End runs the fold rule of the sync engine.
//  4. With multi-client on, a tick starts a sync exchange. The next tick is
//     scheduled only after that exchange resolves, so at most one request is
//     ever outstanding.
//  5. Every frame repaints the canvas from the engine's list plus the buffer.
//
// # External Dependencies
//
//   - plotter: Transport for sync exchanges, Dispatcher as the Outbox
//   - state: sync Engine and link status Store
//   - render: braille painter and PDF export
//   - logtail: log pane contents
//   - config, prefs: settings and persisted toggles
package ui
