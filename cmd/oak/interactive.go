package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/oak/app"
	"github.com/wippyai/oak/config"
	"github.com/wippyai/oak/driver"
	"github.com/wippyai/oak/input"
)

// Rows around the rendered frame: one title row above, the log pane and
// the help or console row below.
const (
	headerRows = 1
	logRows    = 5
	footerRows = logRows + 1
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type tickMsg time.Time

type interactiveModel struct {
	err      error
	app      *app.App
	screen   *driver.Terminal
	logs     *logBuffer
	console  textinput.Model
	script   string
	result   string
	interval time.Duration
	frames   int
	typing   bool
}

func newInteractiveModel(a *app.App, screen *driver.Terminal, logs *logBuffer, cfg *config.Config) *interactiveModel {
	console := textinput.New()
	console.Prompt = ": "
	console.Placeholder = "script line"
	console.Width = 60
	return &interactiveModel{
		app:      a,
		screen:   screen,
		logs:     logs,
		console:  console,
		script:   cfg.Script,
		interval: cfg.FrameInterval(),
	}
}

func (m *interactiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.app.Update()
		m.frames++
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-headerRows-footerRows, 1))
		m.console.Width = max(msg.Width-4, 10)

	case tea.MouseMsg:
		m.pointer(msg)

	case tea.KeyMsg:
		if m.typing {
			return m.updateConsole(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case ":":
			m.typing = true
			m.result = ""
			m.err = nil
			return m, m.console.Focus()
		}
	}
	return m, nil
}

// pointer feeds a mouse event to the input engine in frame coordinates.
// Buttons are numbered from 0 for the left button.
func (m *interactiveModel) pointer(msg tea.MouseMsg) {
	if tea.MouseEvent(msg).IsWheel() {
		return
	}
	pos := input.Point{X: float64(msg.X), Y: float64(msg.Y - headerRows)}
	button := int(msg.Button) - int(tea.MouseButtonLeft)
	in := m.app.Input()
	switch msg.Action {
	case tea.MouseActionPress:
		in.PointerDown(0, button, pos)
	case tea.MouseActionRelease:
		in.PointerUp(0, button, pos)
	case tea.MouseActionMotion:
		in.PointerMove(0, pos)
	}
}

func (m *interactiveModel) updateConsole(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		line := strings.TrimSpace(m.console.Value())
		m.closeConsole()
		if line != "" {
			m.err = m.app.Script().Eval("console", line)
			if m.err == nil {
				m.result = "ok"
			}
		}
		return m, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closeConsole()
		return m, nil
	}
	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

func (m *interactiveModel) closeConsole() {
	m.typing = false
	m.console.Blur()
	m.console.Reset()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("oak"))
	b.WriteString(" ")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s  frame %d", m.script, m.frames)))
	b.WriteString("\n")

	b.WriteString(m.screen.Frame())
	b.WriteString("\n")

	tail := m.logs.Tail(logRows)
	for range logRows - len(tail) {
		b.WriteString("\n")
	}
	for _, line := range tail {
		b.WriteString(logStyle.Render(line))
		b.WriteString("\n")
	}

	switch {
	case m.typing:
		b.WriteString(m.console.View())
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.result != "":
		b.WriteString(statusStyle.Render(m.result))
	default:
		b.WriteString(helpStyle.Render(": console • mouse pointer input • q quit"))
	}
	return b.String()
}

func runInteractive(cfg *config.Config) (err error) {
	logs := newLogBuffer(200)
	log, err := newLogger(cfg.LogLevel, "console", logs)
	if err != nil {
		return err
	}

	screen := driver.NewTerminal(80, 24)
	a := app.New(cfg, app.WithLogger(log), app.WithDriver(screen))
	defer func() {
		if serr := a.Shutdown(); err == nil {
			err = serr
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	p := tea.NewProgram(newInteractiveModel(a, screen, logs, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	_, err = p.Run()
	log.Debug("terminal UI closed", zap.Error(err))
	return err
}
