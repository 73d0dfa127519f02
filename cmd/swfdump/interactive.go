package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/swf/movie"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	dumpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxDump bounds the bytes shown in the detail view.
const maxDump = 512

// pageSize is the number of tags shown at once in the list.
const pageSize = 20

type interactiveModel struct {
	err      error
	header   *movie.Header
	filename string
	opts     movie.Options
	tags     []movie.TagInfo
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
	loaded   bool
}

type modelState int

const (
	stateSelectTag modelState = iota
	stateFilter
	stateShowTag
)

func newInteractiveModel(filename string, opts movie.Options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "tag name"
	ti.Prompt = "filter: "
	ti.Width = 40
	return &interactiveModel{
		filename: filename,
		opts:     opts,
		filter:   ti,
		state:    stateSelectTag,
	}
}

type loadedMsg struct {
	err    error
	header *movie.Header
	tags   []movie.TagInfo
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadMovie
}

func (m *interactiveModel) loadMovie() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	var tags []movie.TagInfo
	h, _, err := movie.Walk(data, m.opts, func(tag movie.TagInfo) error {
		tags = append(tags, tag)
		return nil
	})
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{header: h, tags: tags}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectTag && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectTag && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateSelectTag {
				m.state = stateFilter
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "enter":
			switch m.state {
			case stateSelectTag:
				if len(m.visible) > 0 {
					m.state = stateShowTag
				}
			case stateShowTag:
				m.state = stateSelectTag
			}

		case "esc":
			if m.state == stateShowTag {
				m.state = stateSelectTag
			}
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.header = msg.header
		m.tags = msg.tags
		m.applyFilter()
	}

	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		if msg.String() == "esc" {
			m.filter.SetValue("")
		}
		m.filter.Blur()
		m.state = stateSelectTag
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter keeps the tags whose name contains the filter text.
func (m *interactiveModel) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, t := range m.tags {
		if needle == "" || strings.Contains(strings.ToLower(t.Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if !m.loaded {
		return "Loading movie..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("SWF Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("version %d, %s, %s, %d frames, %d tags",
		m.header.Version, m.header.Compression, m.header.FrameSize, m.header.FrameCount, len(m.tags))))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectTag, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		start := max(m.selected-pageSize/2, 0)
		end := min(start+pageSize, len(m.visible))
		for i := start; i < end; i++ {
			line := m.formatTag(m.tags[m.visible[i]])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • / filter • q quit"))
		}

	case stateShowTag:
		t := m.tags[m.visible[m.selected]]
		b.WriteString(fmt.Sprintf("%s at offset %d\n\n", nameStyle.Render(t.Name), t.Offset))
		b.WriteString(fmt.Sprintf("%+v\n\n", t.Record))
		raw := t.Raw
		if len(raw) > maxDump {
			raw = raw[:maxDump]
		}
		b.WriteString(dumpStyle.Render(hex.Dump(raw)))
		if len(t.Raw) > maxDump {
			b.WriteString(helpStyle.Render(fmt.Sprintf("... %d more bytes", len(t.Raw)-maxDump)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatTag(t movie.TagInfo) string {
	return fmt.Sprintf("%4d %s %s", t.Index, nameStyle.Render(t.Name),
		infoStyle.Render(fmt.Sprintf("code %d, %d+%d bytes @%d", t.Code, t.Header, t.Length, t.Offset)))
}

func runInteractive(filename string, opts movie.Options) error {
	p := tea.NewProgram(newInteractiveModel(filename, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
