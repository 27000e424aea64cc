package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"classlens/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	diagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	result     *pipeline.Result
	lastUpdate time.Time
}

type resultMsg struct {
	result *pipeline.Result
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case resultMsg:
		m.result = msg.result
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, group := range m.result.CycleGroups {
			items = append(items, item{
				title: "Dependency Cycle",
				desc:  strings.Join(group, " -> "),
			})
		}
		for _, c := range m.result.Components {
			items = append(items, item{
				title: string(c.Type),
				desc:  c.Class,
			})
		}
		for _, d := range m.result.Diagnostics {
			items = append(items, item{
				title: "Skipped Record",
				desc:  fmt.Sprintf("%s in %s: %s", d.Entry, d.Archive, d.Message),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	classCount := 0
	cycleCount := 0
	diagCount := 0
	if m.result != nil {
		classCount = m.result.Index.Len()
		cycleCount = len(m.result.CycleGroups)
		diagCount = len(m.result.Diagnostics)
	}

	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d classes",
		m.lastUpdate.Format("15:04:05"), classCount))

	var summary string
	if cycleCount == 0 && diagCount == 0 {
		summary = successStyle.Render("✅ Archive Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			cycleStyle.Render(fmt.Sprintf("%d Cycles", cycleCount)),
			diagStyle.Render(fmt.Sprintf("%d Skipped", diagCount)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Archive Dependency Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Analysis Results"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
