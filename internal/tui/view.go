package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("go-pipeline-lag"))
	b.WriteString(mutedStyle.Render("  " + m.logDir))
	b.WriteString("\n\n")

	left := m.renderPairList()
	right := m.renderDetail()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if len(m.stages) > 0 {
		b.WriteString(m.renderStages())
	}

	b.WriteString(mutedStyle.Render("\n↑/↓ select pair · q quit\n"))
	return b.String()
}

// renderPairList renders the selectable list of event pairs.
func (m Model) renderPairList() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Event Pairs"))
	b.WriteString("\n")

	if len(m.pairLabels) == 0 {
		b.WriteString(mutedStyle.Render("(none requested)"))
		return panelStyle.Render(b.String())
	}

	for i, label := range m.pairLabels {
		line := label
		if r, ok := m.pairResults[label]; ok && r.Empty() {
			line += "  (no data)"
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(baseStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderDetail renders the statistics of the selected pair.
func (m Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Statistics"))
	b.WriteString("\n")

	r, ok := m.Selected()
	if !ok {
		b.WriteString(mutedStyle.Render("(nothing selected)"))
		return panelStyle.Render(b.String())
	}
	if r.Empty() {
		b.WriteString(warnStyle.Render("no request has both events"))
		return panelStyle.Render(b.String())
	}

	b.WriteString(renderStatRow("Count", fmt.Sprintf("%d", r.Count)))
	b.WriteString(renderStatRow("Min", formatMs(r.Min)))
	b.WriteString(renderStatRow("Max", formatMs(r.Max)))
	b.WriteString(renderStatRow("Mean", formatMs(r.Mean)))
	b.WriteString(renderStatRow("Median", formatMs(r.Median)))
	b.WriteString(renderStatRow("P95", formatMs(r.P95)))
	if r.HasStdev {
		b.WriteString(renderStatRow("Stdev", formatMs(r.Stdev)))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderStages renders the per-stage summary table.
func (m Model) renderStages() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Stages"))
	b.WriteString("\n")

	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-14s %9s %12s %12s %12s %10s",
		"Stage", "Requests", "Avg (ms)", "Median (ms)", "P95 (ms)", "Req/s")))
	b.WriteString("\n")

	for _, s := range m.stages {
		if s.Count == 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%-14s %9d %12s %12s %12s %10s",
				s.Stage, 0, "-", "-", "-", "-")))
		} else {
			b.WriteString(baseStyle.Render(fmt.Sprintf("%-14s %9d %12.2f %12.2f %12.2f %10.2f",
				s.Stage, s.Count, s.AvgLatencyMs, s.MedianLatencyMs, s.P95LatencyMs, s.ThroughputPerSec)))
		}
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderStatRow(name, value string) string {
	return mutedStyle.Render(fmt.Sprintf("%-8s", name)) + baseStyle.Render(value) + "\n"
}

// formatMs renders a duration given in seconds as milliseconds.
func formatMs(seconds float64) string {
	return fmt.Sprintf("%.1f ms", seconds*1000)
}
