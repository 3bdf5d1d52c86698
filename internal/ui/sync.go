package ui

import (
	"errors"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/penplot/internal/plotter"
	"github.com/five82/penplot/internal/state"
)

var errNoTransport = errors.New("no relay configured")

// syncTickMsg drives the multi-client loop. Ticks from an older generation
// are dropped, so toggling multi-client never runs two loops.
type syncTickMsg struct{ gen int }

// syncResultMsg carries the outcome of one sync exchange. Only results of
// tick-initiated requests schedule the next tick.
type syncResultMsg struct {
	gen      int
	fromTick bool
	resp     plotter.Response
	err      error
}

func syncTickCmd(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return syncTickMsg{gen: gen}
	})
}

// syncCmd performs req off the event loop.
func (m Model) syncCmd(req plotter.SyncRequest, fromTick bool) tea.Cmd {
	ctx, transport, gen := m.ctx, m.transport, m.syncGen
	return func() tea.Msg {
		if transport == nil {
			return syncResultMsg{gen: gen, fromTick: fromTick, err: errNoTransport}
		}
		resp, err := transport.Sync(ctx, req)
		return syncResultMsg{gen: gen, fromTick: fromTick, resp: resp, err: err}
	}
}

func (m Model) handleSyncTick(msg syncTickMsg) (tea.Model, tea.Cmd) {
	if !m.prefs.MultiClient || msg.gen != m.syncGen {
		return m, nil
	}
	req, ok := m.engine.BeginPoll()
	if !ok {
		// A clear or resync is still out; its reply does not reschedule.
		return m, syncTickCmd(m.syncGen, m.pollDelay())
	}
	return m, m.syncCmd(req, true)
}

func (m Model) handleSyncResult(msg syncResultMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if msg.err != nil {
		log.Printf("sync failed: %v", msg.err)
		m.engine.Fail()
		m.store.Update(msg.err)
		cmds = append(cmds, statusRefreshCmd(m.hold))
	} else {
		m.store.Update(nil)
		cmds = append(cmds, m.applyOutcome(m.engine.Apply(msg.resp)))
	}
	m.snapshot = m.store.Snapshot()

	if msg.fromTick && msg.gen == m.syncGen && m.prefs.MultiClient {
		cmds = append(cmds, syncTickCmd(m.syncGen, m.pollDelay()))
	}
	return m, tea.Batch(cmds...)
}

// applyOutcome reacts to an engine transition. A remote clear drops the
// sent-point marks and a replaced list trims them to what is still shown. A
// resync request goes out at once instead of waiting for the next tick.
func (m *Model) applyOutcome(out state.Outcome) tea.Cmd {
	var cmds []tea.Cmd
	if out.Replaced {
		m.pruneMarks()
	}
	if out.RemoteClear {
		m.marks = nil
		log.Printf("canvas cleared by another client")
		cmds = append(cmds, m.setNotice("Canvas cleared by another client", false))
	}
	if out.Resync {
		if req, ok := m.engine.BeginPoll(); ok {
			cmds = append(cmds, m.syncCmd(req, false))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) toggleMultiClient() (tea.Model, tea.Cmd) {
	m.prefs.MultiClient = !m.prefs.MultiClient
	m.savePrefs()
	m.syncGen++
	if !m.prefs.MultiClient {
		return m, m.setNotice("Multi-client sync off", false)
	}
	return m, tea.Batch(
		syncTickCmd(m.syncGen, 0),
		m.setNotice("Multi-client sync on", false),
	)
}

func (m Model) pollDelay() time.Duration {
	return state.PollDelay(m.store.Snapshot().ConsecutiveFailures, m.pollEvery)
}
