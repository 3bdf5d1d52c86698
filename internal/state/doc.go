// Package state holds the client's view of the shared canvas and the link
// status shown in the header.
//
// # Overview
//
// Two types live here:
//
//   - Engine: the sync engine. It owns the authoritative line list, reads the
//     local stroke buffer, and runs the single-flight lock that decides when
//     a completed local stroke may be folded into the list.
//   - Store: a mutex-protected Snapshot of link health (last sync, last error,
//     consecutive failures, transient "not responding" notice).
//
// # Engine State Machine
//
//	        BeginPoll / Clear
//	Idle ─────────────────────────> AwaitingResponse
//	 ^                                   │    │
//	 │            Apply(resp)            │    │ Fail()
//	 └───────────────────────────────────┘    v
//	                                  AwaitingResponse (failed)
//	                                  next BeginPoll supersedes
//
// At most one sync request is outstanding. After a transport failure the
// lock stays held, but the next timer tick may issue a fresh request in place
// of the failed one. A failed request has no reply left to wait for, so
// strokes fold as if Idle.
//
// # Fold Rule
//
// A completed local stroke is appended to the authoritative list only while
// no reply is pending. If a request is outstanding the stroke stays in the
// buffer, keeps rendering, and is folded right after the reply is applied.
// A reply computed before the stroke existed therefore cannot overwrite it,
// and the stroke is never pushed twice.
//
// # Reply Handling
//
//	ClearAll  + list non-empty + buffer empty   → remote clear, list emptied
//	ClearAll  + buffer non-empty                → clear deferred (see below)
//	StrokeList                                  → list replaced wholesale
//	Unrecognized                                → list kept
//
// Replies always replace, never patch, so a stale reply is simply
// overwritten by the next fresher one.
//
// # Deferred Clears
//
// When an empty reply arrives while a local stroke is buffered, the engine
// does not apply it: the list is kept and the stroke folds onto it as usual.
// The fold's Outcome then asks for an immediate resync so fresh state is
// requested without waiting a tick. A StrokeList reply in the meantime
// supersedes the deferred clear.
//
// # Store
//
// Store follows simple snapshot semantics:
//
//	store.Update(nil)   → LastSync = now, ConsecutiveFailures = 0
//	store.Update(err)   → LastError = err, ConsecutiveFailures++, notice raised
//	store.NoteFailure() → notice raised, counter untouched
//
// Snapshot().NotResponding(now) is true for Hold (default 2s) after the last
// failure, after which the notice clears itself.
package state
