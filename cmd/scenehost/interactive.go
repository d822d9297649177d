package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/veldt-engine/scenehost/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2D7D46")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2D7D46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectorModel struct {
	err      error
	host     *host
	wasmFile string
	manifest string
	memPages uint32
	rows     []resourceRow
	selected int
	ticks    int
	detail   viewport.Model
	showing  bool
	width    int
	height   int
}

type resourceRow struct {
	id   resource.ID
	kind string
	name string
}

type hostLoadedMsg struct {
	err  error
	host *host
}

type tickedMsg struct {
	err error
}

func newInspectorModel(wasmFile, manifestFile string, memPages uint32) *inspectorModel {
	return &inspectorModel{
		wasmFile: wasmFile,
		manifest: manifestFile,
		memPages: memPages,
		detail:   viewport.New(60, 10),
	}
}

func (m *inspectorModel) Init() tea.Cmd {
	return m.loadHost
}

func (m *inspectorModel) loadHost() tea.Msg {
	h, err := loadHost(context.Background(), m.wasmFile, m.manifest, m.memPages, zap.NewNop())
	return hostLoadedMsg{err: err, host: h}
}

func (m *inspectorModel) doTick() tea.Msg {
	return tickedMsg{err: m.host.tick(context.Background(), 1.0/60)}
}

func (m *inspectorModel) refreshRows() {
	m.rows = m.rows[:0]
	m.host.world.Reg.Each(func(id resource.ID, res resource.Resource) bool {
		m.rows = append(m.rows, resourceRow{
			id:   id,
			kind: res.Kind().String(),
			name: res.Label(),
		})
		return true
	})
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = msg.Width - 4
		m.detail.Height = msg.Height / 3
		return m, nil

	case hostLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.host = msg.host
		m.refreshRows()
		return m, nil

	case tickedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.ticks++
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.host != nil {
				_ = m.host.close(context.Background())
			}
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
		case "t", " ":
			if m.host != nil {
				return m, m.doTick
			}
		case "enter":
			if m.showing {
				m.showing = false
			} else if len(m.rows) > 0 {
				m.detail.SetContent(m.describeSelected())
				m.showing = true
			}
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *inspectorModel) describeSelected() string {
	row := m.rows[m.selected]
	res, ok := m.host.world.Reg.Lookup(row.id)
	if !ok {
		return "gone"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "id:   %d\nkind: %s\n", row.id, row.kind)
	if row.name != "" {
		fmt.Fprintf(&b, "name: %s\n", row.name)
	}
	switch r := res.(type) {
	case *resource.Node:
		fmt.Fprintf(&b, "translation: %v\nrotation: %v\nscale: %v\n",
			r.Translation, r.Rotation, r.Scale)
		fmt.Fprintf(&b, "visible: %v  static: %v\n", r.Visible, r.IsStatic)
		if r.Mesh != 0 {
			fmt.Fprintf(&b, "mesh: %d\n", r.Mesh)
		}
	case *resource.Mesh:
		fmt.Fprintf(&b, "primitives: %v\n", r.Primitives)
	case *resource.Material:
		fmt.Fprintf(&b, "baseColor: %v\nmetallic: %g roughness: %g\n",
			r.BaseColorFactor, r.MetallicFactor, r.RoughnessFactor)
	case *resource.UICanvas:
		fmt.Fprintf(&b, "size: %v  %gx%g px  redraws: %d\n",
			r.Size, r.Width, r.Height, r.Redraw)
	}
	return b.String()
}

func (m *inspectorModel) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.host == nil {
		return "Loading...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(" scenehost  tick %d  %d resources ",
		m.ticks, len(m.rows))))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		name := row.name
		if name == "" {
			name = "-"
		}
		line := fmt.Sprintf("  %5d  %-14s %s", row.id, row.kind, name)
		if i == m.selected {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(fmt.Sprintf("  %5d  %s %s",
				row.id,
				kindStyle.Render(fmt.Sprintf("%-14s", row.kind)),
				nameStyle.Render(name)))
		}
		b.WriteString("\n")
	}

	if m.showing {
		b.WriteString("\n")
		b.WriteString(m.detail.View())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("t/space: tick  enter: detail  j/k: move  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func runInteractive(wasmFile, manifestFile string, memPages uint32) error {
	p := tea.NewProgram(newInspectorModel(wasmFile, manifestFile, memPages), tea.WithAltScreen())
	model, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := model.(*inspectorModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
