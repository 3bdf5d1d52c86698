package ui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/penplot/internal/render"
	"github.com/five82/penplot/internal/stroke"
)

const (
	chromeRows  = 2 // header and command bar
	logPaneRows = 8
)

// canvasLayout places the canvas cells on screen, inside a one-cell frame.
type canvasLayout struct {
	left, top  int // screen position of the first canvas cell
	cols, rows int
}

func (l canvasLayout) contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < l.cols && row < l.rows
}

// layoutCanvas fits the logical canvas into the window. A braille cell is
// 2x4 dots and a terminal cell is about twice as tall as wide, so dots are
// square and cols = 2 * rows * width / height keeps the aspect ratio.
func layoutCanvas(width, height int, canvas stroke.Canvas, logs bool) canvasLayout {
	availCols := width - 2
	availRows := height - chromeRows - 2
	if logs {
		availRows -= logPaneRows
	}
	availCols = max(availCols, 1)
	availRows = max(availRows, 1)
	cw := max(canvas.Width, 1)
	ch := max(canvas.Height, 1)

	rows := availRows
	cols := rows * 2 * cw / ch
	if cols > availCols {
		cols = availCols
		rows = cols * ch / (2 * cw)
	}
	cols = max(cols, 1)
	rows = max(rows, 1)

	return canvasLayout{
		left: max((width-cols-2)/2, 0) + 1,
		top:  chromeRows + 1,
		cols: cols,
		rows: rows,
	}
}

// handleMouse turns pointer events into stroke samples: a left press starts
// a stroke, motion while pressed continues it and the release ends it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.surface == nil {
		return m, nil
	}
	col, row := msg.X-m.layout.left, msg.Y-m.layout.top
	inside := m.layout.contains(col, row)
	x, y := m.surface.CellAt(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside || m.drawing {
			return m, nil
		}
		m.drawing = true
		return m.handleSample(stroke.Sample{X: x, Y: y, Kind: stroke.Start})

	case tea.MouseActionMotion:
		if !m.drawing || !inside {
			return m, nil
		}
		return m.handleSample(stroke.Sample{X: x, Y: y, Kind: stroke.Mid})

	case tea.MouseActionRelease:
		if !m.drawing {
			return m, nil
		}
		m.drawing = false
		if !inside {
			x, y = m.last.X, m.last.Y
		}
		return m.handleSample(stroke.Sample{X: x, Y: y, Kind: stroke.End})
	}
	return m, nil
}

// handleSample feeds one sample through the pipeline. Every sample is
// buffered for local drawing; only the ones the decimator keeps are sent.
func (m Model) handleSample(s stroke.Sample) (tea.Model, tea.Cmd) {
	m.last = s
	m.coordX, m.coordY = m.canvas.Display(s)

	px := m.canvas.Pixel(s)
	if m.decimator.Keep(s.Kind) {
		if m.outbox != nil {
			m.outbox.EnqueuePoint(m.canvas.Wire(s))
		}
		m.sent++
		m.addMark(px)
	}
	m.engine.Buffer().Append(px)

	if s.Kind != stroke.End {
		return m, nil
	}
	return m, m.applyOutcome(m.engine.StrokeCompleted())
}

// maxMarks bounds the sent-point marks kept for the show-points layer.
const maxMarks = 4096

// addMark records a transmitted sample. Once maxMarks is reached the oldest
// quarter is dropped.
func (m *Model) addMark(p stroke.PixelPoint) {
	if len(m.marks) >= maxMarks {
		keep := maxMarks * 3 / 4
		m.marks = append([]stroke.PixelPoint(nil), m.marks[len(m.marks)-keep:]...)
	}
	m.marks = append(m.marks, p)
}

// pruneMarks drops marks whose point is no longer on the display.
func (m *Model) pruneMarks() {
	if len(m.marks) == 0 {
		return
	}
	shown := make(map[stroke.PixelPoint]struct{})
	for _, p := range m.engine.Authoritative() {
		shown[p] = struct{}{}
	}
	for _, p := range m.engine.Local() {
		shown[p] = struct{}{}
	}
	kept := make([]stroke.PixelPoint, 0, len(m.marks))
	for _, p := range m.marks {
		if _, ok := shown[p]; ok {
			kept = append(kept, p)
		}
	}
	m.marks = kept
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellInk
	cellPending
	cellMark
)

// renderCanvas redraws the whole canvas from the engine's list and the
// local buffer. The local stroke and transmitted samples are painted on
// separate layers only to pick their colors.
func (m Model) renderCanvas() string {
	l := m.layout
	local := m.engine.Local()

	ink := render.NewBraille(l.cols, l.rows, m.canvas.Width, m.canvas.Height)
	render.Render(ink, m.engine.Authoritative(), local)

	pending := render.NewBraille(l.cols, l.rows, m.canvas.Width, m.canvas.Height)
	render.Render(pending, nil, local)

	var marks *render.Braille
	if m.prefs.ShowPoints {
		marks = render.NewBraille(l.cols, l.rows, m.canvas.Width, m.canvas.Height)
		render.Marks(marks, m.marks)
	}

	styles := m.theme.Styles()
	cellStyles := map[cellKind]lipgloss.Style{
		cellInk:     styles.Ink,
		cellPending: styles.Pending,
		cellMark:    styles.Mark,
	}

	rows := make([]string, l.rows)
	var line, run strings.Builder
	for row := 0; row < l.rows; row++ {
		line.Reset()
		run.Reset()
		current := cellEmpty
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == cellEmpty {
				line.WriteString(run.String())
			} else {
				line.WriteString(cellStyles[current].Render(run.String()))
			}
			run.Reset()
		}

		for col := 0; col < l.cols; col++ {
			r, kind := canvasCell(ink, pending, marks, col, row)
			if kind != current {
				flush()
				current = kind
			}
			run.WriteRune(r)
		}
		flush()
		rows[row] = line.String()
	}

	border := m.theme.Border
	if m.drawing {
		border = m.theme.BorderFocus
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Render(strings.Join(rows, "\n"))

	pad := strings.Repeat(" ", l.left-1)
	lines := strings.Split(frame, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// canvasCell picks the rune and layer for one cell. Marks win over the
// local stroke, which wins over confirmed ink.
func canvasCell(ink, pending, marks *render.Braille, col, row int) (rune, cellKind) {
	r, ok := ink.Cell(col, row)
	kind := cellEmpty
	if ok {
		kind = cellInk
		if _, local := pending.Cell(col, row); local {
			kind = cellPending
		}
	}
	if marks != nil {
		if mr, marked := marks.Cell(col, row); marked {
			if ok {
				r |= mr
			} else {
				r = mr
			}
			kind = cellMark
		}
	}
	return r, kind
}

func (m Model) exportCmd() tea.Cmd {
	canvas := m.canvas
	authoritative := m.engine.Authoritative()
	local := m.engine.Local()
	path := filepath.Join(m.exportDir, "penplot-"+time.Now().Format("20060102-150405")+".pdf")
	return func() tea.Msg {
		err := render.ExportPDF(path, canvas, authoritative, local)
		return exportDoneMsg{path: path, err: err}
	}
}
