// Package plotter provides the HTTP transport between penplot and the
// penplotd relay.
//
// # Overview
//
// The relay is the single source of truth for the shared canvas and the only
// party that talks to the plotting device. This package is the client side of
// that link: it sends decimated stroke points and device commands, and runs
// the multi-client sync exchange whose reply becomes the authoritative line
// list.
//
// # Endpoints
//
//   - POST /api/point: one stroke point, {"x":0.123456,"y":0.5,"t":"mid"}
//   - POST /api/command: {"s":"save"}, {"h":"home"}, {"c":"connect"}, {"m":"up"}
//   - POST /api/lines: the literal [clear], or the client's pixel line list
//
// Every request carries User-Agent: penplot/0.1 and the X-Penplot-Client
// identity the relay uses to tell clients apart.
//
// # Sync Replies
//
// DecodeResponse classifies a /api/lines reply exactly once:
//
//   - ClearAll: an empty array, the relay holds no lines
//   - StrokeList: a non-empty array to adopt wholesale
//   - Unrecognized: anything else, including malformed arrays
//
// Callers never inspect raw bodies.
//
// # Failure Handling
//
// Transport failures (dial errors, timeouts, status >= 400) are returned to
// the caller and never retried here. The Dispatcher logs them and reports
// them on Errors() so the UI can show a transient status.
//
// # Ordering
//
// Points and commands go through a Dispatcher: a single worker goroutine
// drains a bounded queue, so the device receives a stroke in drawing order.
// Sync requests are not queued; the sync engine issues at most one at a time.
package plotter
