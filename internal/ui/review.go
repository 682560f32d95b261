// Package ui implements the interactive plan review screen: a checkbox list
// of deletion targets with per-entry toggling, followed by a progress view
// while removals run.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grahamcooke/apphound/internal/artifact"
	"github.com/grahamcooke/apphound/internal/plan"
	"github.com/grahamcooke/apphound/internal/ui/styles"
	"github.com/grahamcooke/apphound/pkg/utils"
)

type phase int

const (
	phaseSelect phase = iota
	phaseRemoving
	phaseDone
)

// RemoveFunc deletes a single entry. Injected so the review screen never
// performs filesystem operations itself.
type RemoveFunc func(plan.Entry) error

type removedMsg struct {
	index int
	err   error
}

// ReviewModel is the bubbletea model for interactive plan review.
type ReviewModel struct {
	entries  []plan.Entry
	selected map[int]bool
	cursor   int
	offset   int
	height   int

	phase    phase
	remove   RemoveFunc
	queue    []int
	queuePos int
	failures []string

	spin spinner.Model
	bar  progress.Model

	Confirmed bool
	Removed   int
}

// NewReviewModel builds a review screen over a plan's entries. The initial
// selection mirrors each entry's Enabled flag.
func NewReviewModel(p plan.Plan, remove RemoveFunc) ReviewModel {
	selected := make(map[int]bool, len(p.Entries))
	for i, e := range p.Entries {
		selected[i] = e.Enabled
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return ReviewModel{
		entries:  p.Entries,
		selected: selected,
		height:   20,
		remove:   remove,
		spin:     s,
		bar:      progress.New(progress.WithDefaultGradient()),
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
		m.bar.Width = msg.Width - 10

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case removedMsg:
		if msg.err != nil {
			m.failures = append(m.failures,
				fmt.Sprintf("%s: %v", m.entries[msg.index].Path, msg.err))
		} else {
			m.Removed++
		}
		m.queuePos++
		if m.queuePos >= len(m.queue) {
			m.phase = phaseDone
			return m, nil
		}
		return m, m.removeNext()

	case tea.KeyMsg:
		if m.phase == phaseDone {
			return m, tea.Quit
		}
		if m.phase == phaseRemoving {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			for i := range m.entries {
				m.selected[i] = true
			}
		case "n":
			for i := range m.entries {
				m.selected[i] = false
			}
		case "enter":
			m.queue = m.queue[:0]
			for i := range m.entries {
				if m.selected[i] && m.entries[i].Exists {
					m.queue = append(m.queue, i)
				}
			}
			if len(m.queue) == 0 {
				return m, tea.Quit
			}
			m.Confirmed = true
			m.phase = phaseRemoving
			m.queuePos = 0
			return m, m.removeNext()
		}
		m.clampScroll()
	}
	return m, nil
}

func (m *ReviewModel) removeNext() tea.Cmd {
	index := m.queue[m.queuePos]
	entry := m.entries[index]
	return func() tea.Msg {
		return removedMsg{index: index, err: m.remove(entry)}
	}
}

func (m *ReviewModel) clampScroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m ReviewModel) View() string {
	switch m.phase {
	case phaseRemoving:
		return m.removingView()
	case phaseDone:
		return m.doneView()
	default:
		return m.selectView()
	}
}

func (m ReviewModel) selectView() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Review deletion plan"))
	b.WriteString("\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]

		checkbox := styles.CheckboxUncheckedStyle.Render("[ ]")
		if m.selected[i] {
			checkbox = styles.CheckboxStyle.Render("[x]")
		}

		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("> ")
		}

		line := fmt.Sprintf("%s%s %s %s %s",
			cursor,
			checkbox,
			safetyStyle(e.RemovalSafety).Render(fmt.Sprintf("%-7s", e.RemovalSafety)),
			styles.PathStyle.Render(e.Path),
			styles.DimStyle.Render(fmt.Sprintf("(%s, %s, %s)",
				e.AppName, e.Category, utils.FormatOptionalBytes(e.Size))),
		)
		if !e.Exists {
			line += styles.DimStyle.Render(" [missing]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(
		"space toggle · a all · n none · enter delete selected · q quit"))
	return b.String()
}

func (m ReviewModel) removingView() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Removing artifacts"))
	b.WriteString("\n")
	b.WriteString(m.spin.View())
	current := m.entries[m.queue[m.queuePos]]
	b.WriteString(" " + styles.PathStyle.Render(current.Path))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(float64(m.queuePos) / float64(len(m.queue))))
	b.WriteString("\n")
	return b.String()
}

func (m ReviewModel) doneView() string {
	var b strings.Builder
	b.WriteString(styles.SuccessStyle.Render(
		fmt.Sprintf("Removed %d of %d selected artifacts", m.Removed, len(m.queue))))
	b.WriteString("\n")
	for _, f := range m.failures {
		b.WriteString(styles.ErrorStyle.Render("failed: " + f))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("press any key to exit"))
	return b.String()
}

func safetyStyle(s artifact.Safety) lipgloss.Style {
	switch s {
	case artifact.SafetySafe:
		return styles.SafeStyle
	case artifact.SafetyCaution:
		return styles.CautionStyle
	default:
		return styles.ReviewStyle
	}
}

// RunReview launches the interactive review over a plan and reports whether
// the user confirmed and how many entries were removed.
func RunReview(p plan.Plan, remove RemoveFunc) (confirmed bool, removed int, err error) {
	m := NewReviewModel(p, remove)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return false, 0, fmt.Errorf("running plan review: %w", err)
	}
	result, ok := final.(ReviewModel)
	if !ok {
		return false, 0, nil
	}
	return result.Confirmed, result.Removed, nil
}
