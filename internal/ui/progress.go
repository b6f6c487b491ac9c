package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"hxsl/internal/driver"
)

type progressModel struct {
	title   string
	events  <-chan driver.ShaderEvent
	spinner spinner.Model
	prog    progress.Model
	items   []shaderItem
	index   map[string]int
	width   int
	done    bool
}

type shaderItem struct {
	name    string
	status  driver.ShaderStatus
	elapsed string
}

type eventMsg driver.ShaderEvent
type doneMsg struct{}

// ShaderKey is the row key of a shader in the progress view.
func ShaderKey(module, shader string) string { return module + "/" + shader }

// NewProgressModel returns a Bubble Tea model that renders shader progress.
// shaders are ShaderKey values; the model quits when events is closed.
func NewProgressModel(title string, shaders []string, events <-chan driver.ShaderEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]shaderItem, 0, len(shaders))
	index := make(map[string]int, len(shaders))
	for i, name := range shaders {
		items = append(items, shaderItem{name: name, status: driver.ShaderQueued})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.ShaderEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.done {
		header = "done: " + m.title
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		fmt.Fprintf(&b, "  %s %s", status, truncate(item.name, nameWidth))
		if item.elapsed != "" {
			b.WriteString(lipgloss.NewStyle().Faint(true).Render(" " + item.elapsed))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.ShaderEvent) tea.Cmd {
	idx, ok := m.index[ShaderKey(ev.Module, ev.Shader)]
	if !ok {
		return nil
	}
	m.items[idx].status = ev.Status
	if ev.Elapsed > 0 {
		m.items[idx].elapsed = ev.Elapsed.Round(10_000).String()
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		total += progressFromStatus(item.status)
	}
	return total / float64(len(m.items))
}

func progressFromStatus(s driver.ShaderStatus) float64 {
	switch s {
	case driver.ShaderStarted:
		return 0.5
	case driver.ShaderDone, driver.ShaderCached, driver.ShaderFailed:
		return 1
	default:
		return 0
	}
}

func styleStatus(s driver.ShaderStatus) lipgloss.Style {
	switch s {
	case driver.ShaderDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.ShaderCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	case driver.ShaderFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.ShaderStarted:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
