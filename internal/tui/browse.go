// Package tui is an interactive terminal browser over the summary
// vectors of a simulation case: a filterable vector list with an inline
// plot of the selected vector.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/equinor/res2df/internal/frame"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type model struct {
	caseName string
	tbl      *frame.Table
	vectors  []string

	cursor    int
	offset    int
	filter    string
	filtering bool

	width  int
	height int
}

// NewBrowser builds the browser over an extracted summary table.
func NewBrowser(caseName string, tbl *frame.Table) tea.Model {
	var vectors []string
	for _, name := range tbl.Names() {
		if name != "DATE" {
			vectors = append(vectors, name)
		}
	}
	return model{
		caseName: caseName,
		tbl:      tbl,
		vectors:  vectors,
		width:    80,
		height:   24,
	}
}

// Run starts the interactive program.
func Run(caseName string, tbl *frame.Table) error {
	_, err := tea.NewProgram(NewBrowser(caseName, tbl), tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.filtering = false
		case tea.KeyBackspace:
			if len(m.filter) > 0 {
				m.filter = m.filter[:len(m.filter)-1]
			}
		case tea.KeyRunes:
			m.filter += string(msg.Runes)
		}
		m.cursor = 0
		m.offset = 0
		return m, nil
	}
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.filtered())-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		m.filter = ""
		m.cursor = 0
	case "esc":
		m.filter = ""
		m.cursor = 0
	}
	return m, nil
}

func (m model) filtered() []string {
	if m.filter == "" {
		return m.vectors
	}
	needle := strings.ToUpper(m.filter)
	var out []string
	for _, v := range m.vectors {
		if strings.Contains(strings.ToUpper(v), needle) {
			out = append(out, v)
		}
	}
	return out
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(cyan.Render(fmt.Sprintf("summary vectors: %s", m.caseName)))
	sb.WriteString("\n")
	if m.filtering {
		sb.WriteString(yellow.Render("filter: "+m.filter+"▌") + "\n")
	} else if m.filter != "" {
		sb.WriteString(dim.Render("filter: "+m.filter) + "\n")
	} else {
		sb.WriteString(dim.Render("↑/↓ select   / filter   q quit") + "\n")
	}
	sb.WriteString("\n")

	vectors := m.filtered()
	listHeight := m.height - 16
	if listHeight < 3 {
		listHeight = 3
	}
	offset := m.offset
	if m.cursor < offset {
		offset = m.cursor
	}
	if m.cursor >= offset+listHeight {
		offset = m.cursor - listHeight + 1
	}
	for i := offset; i < len(vectors) && i < offset+listHeight; i++ {
		line := "  " + vectors[i]
		if i == m.cursor {
			line = green.Render("> " + vectors[i])
		} else {
			line = white.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	if len(vectors) == 0 {
		sb.WriteString(dim.Render("  no vectors match") + "\n")
	}
	sb.WriteString("\n")

	if m.cursor < len(vectors) {
		sb.WriteString(m.plot(vectors[m.cursor]))
	}
	return sb.String()
}

func (m model) plot(vector string) string {
	var data []float64
	for _, v := range m.tbl.Floats(vector) {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	if len(data) < 2 {
		return dim.Render("no data for " + vector)
	}
	width := m.width - 12
	if width < 20 {
		width = 20
	}
	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(8),
		asciigraph.Caption(vector),
	)
}
