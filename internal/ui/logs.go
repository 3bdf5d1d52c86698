package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/penplot/internal/logtail"
)

const (
	logTailLines   = 200
	logRefreshRate = time.Second
)

type logTickMsg struct{ gen int }

type logLinesMsg struct {
	lines []string
	err   error
}

func logTickCmd(gen int) tea.Cmd {
	return tea.Tick(logRefreshRate, func(time.Time) tea.Msg {
		return logTickMsg{gen: gen}
	})
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// toggleLogs shows or hides the client log pane. While shown the pane
// follows the log file once per second.
func (m Model) toggleLogs() (tea.Model, tea.Cmd) {
	m.showLogs = !m.showLogs
	m.logGen++
	if m.width > 0 {
		m.resize()
	}
	if !m.showLogs {
		return m, nil
	}
	return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd(m.logGen))
}

func (m *Model) resizeLogViewport() {
	width := max(m.width-2, 1)
	height := logPaneRows - 1 // title row
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
		return
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.logViewport.SetContent(msg.err.Error())
		return
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.colorizeLogLines(msg.lines))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) colorizeLogLines(lines []string) string {
	styles := m.theme.Styles()
	out := make([]string, len(lines))
	for i, line := range lines {
		switch logtail.Classify(line) {
		case logtail.LevelError:
			out[i] = styles.DangerText.Render(line)
		case logtail.LevelWarn:
			out[i] = styles.WarningText.Render(line)
		default:
			out[i] = styles.MutedText.Render(line)
		}
	}
	return strings.Join(out, "\n")
}

// renderLogs renders the log pane below the canvas.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	title := bg.Render("Log", styles.AccentText) + bg.Spaces(2) +
		bg.Render(truncate(m.logPath, max(m.width-10, 8)), styles.FaintText)

	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SurfaceAlt))
	return lipgloss.JoinVertical(lipgloss.Left,
		bg.FillLine(title, m.width),
		m.logViewport.View(),
	)
}
