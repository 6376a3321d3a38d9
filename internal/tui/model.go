// Package tui is the interactive tasbih counter.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/salat/internal/tasbih"
)

const (
	flashDuration = 600 * time.Millisecond
	maxBarWidth   = 48
)

// SaveFunc persists the counter after every change.
type SaveFunc func(tasbih.Counter) error

type flashDoneMsg struct{}

// Model is the bubbletea model for the counter.
type Model struct {
	counter  tasbih.Counter
	dhikr    int
	save     SaveFunc
	progress progress.Model
	flash    bool
	err      error
	width    int
}

// New returns a model starting from c. save may be nil.
func New(c tasbih.Counter, save SaveFunc) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = maxBarWidth
	return Model{counter: c, dhikr: -1, save: save, progress: bar}
}

// Counter returns the current counter state.
func (m Model) Counter() tasbih.Counter {
	return m.counter
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) persist() {
	if m.save == nil {
		return
	}
	m.err = m.save(m.counter)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(maxBarWidth, max(10, msg.Width-8))
		return m, nil

	case flashDoneMsg:
		m.flash = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case " ", "enter":
			fb := m.counter.Increment()
			m.persist()
			if fb == tasbih.TargetReached {
				m.flash = true
				return m, tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{} })
			}

		case "r":
			m.counter.Reset()
			m.flash = false
			m.persist()

		case "t":
			m.counter.NextTarget()
			m.persist()

		case "d":
			m.dhikr = (m.dhikr + 1) % len(tasbih.Dhikrs)
			if err := m.counter.SetTarget(tasbih.Dhikrs[m.dhikr].Count); err == nil {
				m.persist()
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasbih"))
	b.WriteString("\n")
	if m.dhikr >= 0 {
		d := tasbih.Dhikrs[m.dhikr]
		b.WriteString(dhikrStyle.Render(fmt.Sprintf("%s  %s", d.Name, d.LocalName)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	style := countStyle
	if m.flash {
		style = reachedStyle
	}
	b.WriteString(style.Render(fmt.Sprintf("%d", m.counter.Count)))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.counter.Progress()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d / %d  ·  sets completed: %d",
		m.counter.Current(), m.counter.Target, m.counter.CompletedSets())))
	b.WriteString("\n")

	if m.flash {
		b.WriteString(dhikrStyle.Render("Target reached!"))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("save failed: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space/enter: count • t: target • d: dhikr • r: reset • q: quit"))

	if m.width > 0 {
		return lipgloss.NewStyle().Width(m.width).Render(b.String())
	}
	return b.String()
}
