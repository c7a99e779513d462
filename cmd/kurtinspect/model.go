// Command kurtinspect is a read-only TUI browser over a compiled module's
// prototypes and their disassembly; the constant pool appears only as a
// count in the header, its entries are not listed -- grounded on
// cmd/hiveexplorer's bubbletea/lipgloss model/update/view split, but
// reduced to a single flat list since there is no tree/subkey structure to
// navigate, only a prototype table and each prototype's code.
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/isaacazuelos/kurt/internal/compiler"
)

type model struct {
	built  compiler.CompiledModule
	cursor int
	height int
}

func newModel(built compiler.CompiledModule) model {
	return model{built: built, height: 20}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.built.Prototypes)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("kurtinspect -- %d prototypes, %d constants",
		len(m.built.Prototypes), len(m.built.Constants))))
	b.WriteString("\n")

	left := m.renderPrototypeList()
	right := m.renderSelectedCode()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, paneStyle.Render(left), paneStyle.Render(right)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("up/down to select a prototype, q to quit"))
	return b.String()
}

func (m model) renderPrototypeList() string {
	var b strings.Builder
	for i, p := range m.built.Prototypes {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("<anonymous %d>", i)
		}
		line := fmt.Sprintf("%3d  %s", i, name)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderSelectedCode() string {
	if m.cursor >= len(m.built.Prototypes) {
		return ""
	}
	p := m.built.Prototypes[m.cursor]
	var b strings.Builder
	for pc, op := range p.Code {
		fmt.Fprintf(&b, "%4d  %s\n", pc, op.Disassemble())
	}
	return b.String()
}
