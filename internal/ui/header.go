package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/penplot/internal/stroke"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100

	parts := []string{bg.Render("penplot", styles.Logo)}
	parts = append(parts, m.linkStatus(styles, bg, time.Now()))

	syncLabel := m.engine.State().String()
	if m.engine.ClearPending() {
		syncLabel += " (clear pending)"
	}
	parts = append(parts,
		bg.Render("Sync:", styles.MutedText)+bg.Space()+bg.Render(syncLabel, styles.Text))

	multi, multiStyle := "off", styles.FaintText
	if m.prefs.MultiClient {
		multi, multiStyle = "on", styles.AccentText
	}
	parts = append(parts,
		bg.Render("Multi:", styles.MutedText)+bg.Space()+bg.Render(multi, multiStyle),
		bg.Render("Sift:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.prefs.SiftQuantity), styles.Text),
		bg.Render(fmt.Sprintf("x %s y %s", m.coordX, m.coordY), styles.InfoText),
	)

	if !compact {
		strokes := len(stroke.Split(m.engine.Authoritative()))
		parts = append(parts,
			bg.Render("Strokes:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", strokes), styles.Text),
			bg.Render("Sent:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.sent), styles.Text),
		)
		if m.server != "" {
			parts = append(parts, bg.Render(truncate(m.server, 32), styles.FaintText))
		}
	}

	if m.notice != "" {
		style := styles.WarningText
		if m.noticeErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.notice, 48), style))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// linkStatus describes the relay link. A failure shows a transient notice
// which clears on its own once the hold interval has passed.
func (m Model) linkStatus(styles Styles, bg BgStyle, now time.Time) string {
	snap := m.snapshot
	var status string
	switch {
	case snap.IsOffline():
		status = bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText)
	case !snap.LastSync.IsZero():
		status = bg.Render("● ONLINE", styles.SuccessText)
	case m.prefs.MultiClient:
		status = bg.Render("● CONNECTING", styles.WarningText)
	default:
		status = bg.Render("● LOCAL", styles.MutedText)
	}
	if snap.NotResponding(now) {
		status += bg.Spaces(2) + bg.Render("Server is not responding", styles.DangerText)
	}
	return status
}

// classifyConnectionError maps a transport error to a short status label.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status"):
		return "RELAY ERROR"
	default:
		return "OFFLINE"
	}
}

// renderCommandBar renders the key hints and the active theme.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Render(":", styles.FaintText)

	bindings := m.keys.ShortHelp()
	segments := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}

	points := "off"
	if m.prefs.ShowPoints {
		points = "on"
	}
	segments = append(segments,
		bg.Render("p", styles.AccentText)+colon+bg.Render("Points "+points, styles.FaintText),
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText),
	)

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

