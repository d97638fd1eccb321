package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/scorecard"
	"github.com/ecoguard/backend/internal/wizard"
)

const barWidth = 30

// View implements tea.Model
func (m Model) View() string {
	switch m.phase {
	case PhaseCalculating:
		return fmt.Sprintf("\n  %s Calculating your footprint...\n\n", m.spinner.View())
	case PhaseResult:
		if m.scorecard != nil {
			return m.viewScorecard(*m.scorecard)
		}
	}
	return m.viewStep()
}

func (m Model) viewStep() string {
	snap := m.wizard.Snapshot()
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Step %d of %d: %s", snap.Step, snap.TotalSteps, snap.Title)))
	b.WriteString("\n")
	if snap.Note != "" {
		b.WriteString(m.styles.Subtle.Render(snap.Note))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, f := range snap.Fields {
		marker := "  "
		label := f.Label
		if i == m.cursor {
			marker = m.styles.Cursor.Render("> ")
			label = m.styles.Cursor.Render(label)
		}
		fmt.Fprintf(&b, "%s%-28s %s\n", marker, label, m.renderValue(f, snap, i == m.cursor))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}

	next := "next"
	if snap.Step == snap.TotalSteps {
		next = "calculate"
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(fmt.Sprintf(
		"↑/↓ field  ←/→ change  space toggle  0-9 type  enter %s  esc back  q quit", next)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderValue(f wizard.FieldSpec, snap wizard.Snapshot, focused bool) string {
	switch f.Kind {
	case wizard.KindChoice:
		return "‹ " + m.wizard.Value(f.Name) + " ›"

	case wizard.KindNumber:
		text := m.input(f.Name)
		if text == "" {
			text = "0"
		}
		if focused {
			text += "▏"
		}
		if f.Hint != "" {
			text += "  " + m.styles.Subtle.Render(f.Hint)
		}
		return text

	case wizard.KindMulti:
		selected := snap.Answers.Recycling
		if f.Name == wizard.FieldCookingWith {
			selected = snap.Answers.CookingWith
		}
		parts := make([]string, len(f.Options))
		for i, opt := range f.Options {
			box := "[ ]"
			if slices.Contains(selected, opt) {
				box = "[x]"
			}
			item := box + " " + opt
			if focused && i == m.optCursor {
				item = m.styles.Selected.Render(item)
			}
			parts[i] = item
		}
		return strings.Join(parts, "  ")

	case wizard.KindImage:
		if snap.ImageName == "" {
			return m.styles.Subtle.Render("(no photo attached)")
		}
		return snap.ImageName
	}
	return ""
}

func (m Model) viewScorecard(sc domain.Scorecard) string {
	var b strings.Builder

	classStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(sc.Color))
	b.WriteString(m.styles.Title.Render("Your Carbon Scorecard"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s kg CO2e / year  %s\n",
		lipgloss.NewStyle().Bold(true).Render(scorecard.FormatKg(sc.TotalKg, 1)),
		classStyle.Render(string(sc.Classification)))
	fmt.Fprintf(&b, "Requires %d trees to offset annually\n\n", sc.OffsetUnits)

	peak := 0.0
	for _, e := range sc.Breakdown {
		peak = max(peak, e.KgCO2)
	}
	for _, e := range sc.Breakdown {
		width := 0
		if peak > 0 {
			width = int(e.KgCO2 / peak * barWidth)
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render(strings.Repeat("█", width))
		fmt.Fprintf(&b, "%-16s %-*s %s kg\n", e.Label, barWidth, bar, scorecard.FormatKg(e.KgCO2, 2))
	}

	if len(sc.VisionLog) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Subtle.Render("Computer vision log"))
		b.WriteString("\n")
		for _, item := range sc.VisionLog {
			fmt.Fprintf(&b, "  %-10s %3.0f%%  %7.1fg  %.3f kg\n",
				item.Material, item.Confidence*100, item.WeightG, item.CarbonKg)
		}
	}

	if sc.Sensor != nil {
		fmt.Fprintf(&b, "\nLive sensor: %s kg so far, %s kg by midnight\n",
			scorecard.FormatKg(sc.Sensor.CurrentCumulativeKg, 2),
			scorecard.FormatKg(sc.Sensor.PredictedMidnightKg, 2))
	}

	if len(sc.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range sc.Suggestions {
			b.WriteString("• " + s + "\n")
		}
	}

	out := m.styles.Card.Render(strings.TrimRight(b.String(), "\n"))
	return out + "\n" + m.styles.Help.Render("r recalculate  q quit") + "\n"
}
