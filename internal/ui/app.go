package ui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/penplot/internal/config"
	"github.com/five82/penplot/internal/plotter"
	"github.com/five82/penplot/internal/prefs"
	"github.com/five82/penplot/internal/render"
	"github.com/five82/penplot/internal/state"
	"github.com/five82/penplot/internal/stroke"
)

// Outbox queues points and commands for the relay in order.
type Outbox interface {
	EnqueuePoint(p stroke.WirePoint)
	EnqueueCommand(c plotter.Command)
	Errors() <-chan error
}

var _ Outbox = (*plotter.Dispatcher)(nil)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Transport plotter.Transport // sync exchanges
	Outbox    Outbox            // points and device commands
	Store     *state.Store
	Engine    *state.Engine
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string // empty disables saving
	Server    string
	ExportDir string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	transport plotter.Transport
	outbox    Outbox
	store     *state.Store
	engine    *state.Engine
	canvas    stroke.Canvas
	pollEvery time.Duration
	hold      time.Duration
	logPath   string
	exportDir string
	server    string
	prefsPath string
	prefs     prefs.Prefs

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool

	// Pointer state
	decimator *stroke.Decimator
	layout    canvasLayout
	surface   *render.Braille
	drawing   bool
	last      stroke.Sample
	coordX    string
	coordY    string
	marks     []stroke.PixelPoint
	sent      int

	// Sync state
	syncGen  int
	snapshot state.Snapshot

	// Transient notice shown in the header
	notice    string
	noticeErr bool
	noticeSeq int

	// Log pane
	logViewport viewport.Model
	logGen      int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{Hold: cfg.NotResponding}
	}
	engine := opts.Engine
	if engine == nil {
		engine = state.NewEngine(nil)
	}

	p := opts.Prefs
	p.SiftQuantity = prefs.ClampSift(p.SiftQuantity)
	theme := GetTheme(p.Theme)
	p.Theme = theme.Name

	hold := cfg.NotResponding
	if hold <= 0 {
		hold = state.DefaultNotRespondingHold
	}

	m := Model{
		ctx:       ctx,
		transport: opts.Transport,
		outbox:    opts.Outbox,
		store:     store,
		engine:    engine,
		canvas:    stroke.Canvas{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight},
		pollEvery: cfg.PollInterval,
		hold:      hold,
		logPath:   cfg.LogPath(),
		exportDir: opts.ExportDir,
		server:    opts.Server,
		prefsPath: opts.PrefsPath,
		prefs:     p,
		keys:      DefaultKeyMap(),
		theme:     theme,
		decimator: stroke.NewDecimator(p.SiftQuantity),
		snapshot:  store.Snapshot(),
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	m.coordX, m.coordY = m.canvas.Display(stroke.Sample{})
	if p.MultiClient {
		m.syncGen = 1
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		waitForDispatchError(m.outbox),
	}
	if m.prefs.MultiClient {
		cmds = append(cmds, syncTickCmd(m.syncGen, 0))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case syncTickMsg:
		return m.handleSyncTick(msg)

	case syncResultMsg:
		return m.handleSyncResult(msg)

	case dispatchErrMsg:
		log.Printf("dispatch: %v", msg.err)
		m.store.NoteFailure(msg.err)
		m.snapshot = m.store.Snapshot()
		return m, tea.Batch(waitForDispatchError(m.outbox), statusRefreshCmd(m.hold))

	case statusRefreshMsg:
		m.snapshot = m.store.Snapshot()
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			log.Printf("export failed: %v", msg.err)
			return m, m.setNotice("Export failed", true)
		}
		log.Printf("exported canvas to %s", msg.path)
		return m, m.setNotice("Exported "+msg.path, false)

	case logTickMsg:
		if !m.showLogs || msg.gen != m.logGen {
			return m, nil
		}
		return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd(m.logGen))

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		return m.toggleLogs()

	case key.Matches(msg, m.keys.Clear):
		return m.clearCanvas()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.ToggleMulti):
		return m.toggleMultiClient()

	case key.Matches(msg, m.keys.TogglePoints):
		m.prefs.ShowPoints = !m.prefs.ShowPoints
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.SiftUp):
		m.setSift(m.prefs.SiftQuantity + 1)
		return m, nil

	case key.Matches(msg, m.keys.SiftDown):
		m.setSift(m.prefs.SiftQuantity - 1)
		return m, nil

	case key.Matches(msg, m.keys.Home):
		return m, m.sendCommand(plotter.HomeCommand())

	case key.Matches(msg, m.keys.SaveHome):
		return m, m.sendCommand(plotter.SaveHomeCommand())

	case key.Matches(msg, m.keys.Connect):
		return m, m.sendCommand(plotter.ConnectCommand())

	case key.Matches(msg, m.keys.JogUp):
		return m, m.jog(plotter.DirUp)
	case key.Matches(msg, m.keys.JogDown):
		return m, m.jog(plotter.DirDown)
	case key.Matches(msg, m.keys.JogLeft):
		return m, m.jog(plotter.DirLeft)
	case key.Matches(msg, m.keys.JogRight):
		return m, m.jog(plotter.DirRight)
	}

	return m, nil
}

// setSift changes how many mid points are skipped. The decimator picks the
// new value up from the next sample.
func (m *Model) setSift(n int) {
	n = prefs.ClampSift(n)
	if n == m.prefs.SiftQuantity {
		return
	}
	m.prefs.SiftQuantity = n
	m.decimator.SetQuantity(n)
	m.savePrefs()
}

func (m *Model) sendCommand(cmd plotter.Command) tea.Cmd {
	if m.outbox == nil {
		return nil
	}
	m.outbox.EnqueueCommand(cmd)
	return m.setNotice("Sent "+cmd.Label(), false)
}

func (m *Model) jog(direction string) tea.Cmd {
	cmd, err := plotter.MoveCommand(direction)
	if err != nil {
		log.Printf("jog: %v", err)
		return nil
	}
	return m.sendCommand(cmd)
}

func (m Model) clearCanvas() (tea.Model, tea.Cmd) {
	req, ok := m.engine.Clear()
	m.marks = nil
	notice := m.setNotice("Canvas cleared", false)
	if !ok {
		return m, notice
	}
	return m, tea.Batch(m.syncCmd(req, false), notice)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// setNotice shows text in the header until a newer notice replaces it or it
// expires.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeErr = isErr
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// resize recomputes the canvas layout for the current window.
func (m *Model) resize() {
	m.layout = layoutCanvas(m.width, m.height, m.canvas, m.showLogs)
	m.surface = render.NewBraille(m.layout.cols, m.layout.rows, m.canvas.Width, m.canvas.Height)
	m.resizeLogViewport()
}

// renderMain renders the header, command bar, canvas and optional log pane.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}
	return b.String()
}

// Messages

const noticeDuration = 3 * time.Second

type noticeExpiredMsg struct{ seq int }

type statusRefreshMsg struct{}

type dispatchErrMsg struct{ err error }

type exportDoneMsg struct {
	path string
	err  error
}

// Commands

// statusRefreshCmd repaints the header once a failure notice has expired.
func statusRefreshCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusRefreshMsg{}
	})
}

func waitForDispatchError(outbox Outbox) tea.Cmd {
	if outbox == nil {
		return nil
	}
	errs := outbox.Errors()
	if errs == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return dispatchErrMsg{err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	return err
}
