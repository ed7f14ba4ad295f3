package main

import (
	"fmt"
	"strings"
	"time"

	"customer-insights/internal/dashboard"
	"customer-insights/internal/model"
	"customer-insights/internal/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorInfo    = lipgloss.Color("#2196F3")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
	colorBar     = lipgloss.Color("#3B82F6")
	colorBorder  = lipgloss.Color("#2a3850")

	okStyle     = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	barStyle    = lipgloss.NewStyle().Foreground(colorBar)
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

func noticeColor(l dashboard.Level) lipgloss.Color {
	switch l {
	case dashboard.LevelSuccess:
		return colorSuccess
	case dashboard.LevelWarning:
		return colorWarning
	case dashboard.LevelError:
		return colorError
	}
	return colorInfo
}

func renderNotice(n dashboard.Notice) string {
	title := lipgloss.NewStyle().Foreground(noticeColor(n.Level)).Bold(true).Render(n.Title)
	if n.Text == "" {
		return title
	}
	return title + " " + n.Text
}

func renderTable(t stats.Table) string {
	if len(t.Headers) == 0 {
		return "(no rows)"
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.Headers...).
		Rows(t.Rows...).
		String()
}

// renderBars draws one horizontal bar per category, scaled so the largest
// count fills width cells.
func renderBars(dist []model.CategoryCount, width int) string {
	if len(dist) == 0 {
		return "(no categories)"
	}
	top, labelWidth := 0, 0
	for _, c := range dist {
		top = max(top, c.Count)
		labelWidth = max(labelWidth, lipgloss.Width(c.Category))
	}

	var sb strings.Builder
	for _, c := range dist {
		n := max(1, c.Count*width/top)
		label := c.Category + strings.Repeat(" ", labelWidth-lipgloss.Width(c.Category))
		fmt.Fprintf(&sb, "%s  %s %d\n", labelStyle.Render(label), barStyle.Render(strings.Repeat("█", n)), c.Count)
	}
	fmt.Fprintf(&sb, "%s  %d rows", labelStyle.Render("Total"+strings.Repeat(" ", max(0, labelWidth-5))), stats.Total(dist))
	return sb.String()
}

func renderStatus(st dashboard.State, sessionPath string) string {
	var sb strings.Builder
	line := func(k, v string) { fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", k)), v) }

	if st.Board.BackendReady() {
		line("backend", okStyle.Render("ready")+" "+st.Board.Health.URL)
	} else {
		line("backend", lipgloss.NewStyle().Foreground(colorError).Render("unavailable")+" "+st.Board.Health.URL)
	}
	if st.Session == nil {
		line("session", "signed out")
	} else {
		v := "signed in (" + st.Session.TokenType + ")"
		if exp, ok := st.Session.ExpiresAt(); ok {
			v += ", expires " + exp.Local().Format(time.RFC3339)
		}
		line("session", v)
	}
	line("file", sessionPath)
	return strings.TrimRight(sb.String(), "\n")
}
