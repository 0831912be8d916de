package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"calcpad/internal/calculator"
)

const (
	displayWidth = 24
	tapeLength   = 12
)

// layout is the keypad as drawn, row by row.
var layout = [][]calculator.Key{
	{calculator.Clear, calculator.ToggleSign, calculator.Percent, calculator.Divide},
	{calculator.Digit7, calculator.Digit8, calculator.Digit9, calculator.Multiply},
	{calculator.Digit4, calculator.Digit5, calculator.Digit6, calculator.Subtract},
	{calculator.Digit1, calculator.Digit2, calculator.Digit3, calculator.Add},
	{calculator.Digit0, calculator.Dot, calculator.Equals},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	displayStyle = lipgloss.NewStyle().
			Bold(true).
			Width(displayWidth).
			Align(lipgloss.Right).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	keyStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("252"))

	operatorKeyStyle = keyStyle.Foreground(lipgloss.Color("214"))
	pressedKeyStyle  = keyStyle.Reverse(true)
	pendingKeyStyle  = operatorKeyStyle.Underline(true)

	tapeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the Bubble Tea model that renders an Engine as a keypad and
// forwards key presses to it.
type Model struct {
	engine *calculator.Engine
	logger *zap.Logger

	last    calculator.Key
	pressed bool
	tape    []string
	width   int
}

// NewModel returns a keypad driving engine. A nil logger discards logs.
func NewModel(engine *calculator.Engine, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{engine: engine, logger: logger}
}

// Display returns the text currently on the calculator display.
func (m Model) Display() string {
	return m.engine.Display()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

		k, err := calculator.ParseKey(msg.String())
		if err != nil {
			m.logger.Debug("ignored key", zap.String("key", msg.String()))
			return m, nil
		}
		return m.press(k), nil
	}

	return m, nil
}

func (m Model) press(k calculator.Key) Model {
	display := m.engine.Handle(k)

	m.last = k
	m.pressed = true
	m.tape = append(m.tape, k.String())
	if len(m.tape) > tapeLength {
		m.tape = m.tape[len(m.tape)-tapeLength:]
	}

	m.logger.Debug("key pressed",
		zap.String("key", k.String()),
		zap.String("display", display),
	)
	return m
}

func (m Model) View() string {
	var s strings.Builder
	st := m.engine.State()

	s.WriteString(titleStyle.Render("calcpad"))
	s.WriteString("\n")

	text := st.Display
	if len(text) > displayWidth {
		text = "…" + text[len(text)-displayWidth+1:]
	}
	style := displayStyle
	if st.NonFinite() {
		style = style.Foreground(lipgloss.Color("9"))
	}
	s.WriteString(style.Render(text))
	s.WriteString("\n")

	for _, row := range layout {
		cells := make([]string, 0, len(row))
		for _, k := range row {
			cells = append(cells, m.renderKey(k, st))
		}
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(tapeStyle.Render(fmt.Sprintf("tape: %s", strings.Join(m.tape, " "))))
	s.WriteString("\n")
	if st.NonFinite() {
		s.WriteString(errStyle.Render("result is not a finite number, press c to clear"))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("0-9 . + - * / % = enter · n toggle sign · c clear · q quit"))

	return s.String()
}

func (m Model) renderKey(k calculator.Key, st calculator.State) string {
	label := fmt.Sprintf("[%s]", k)
	switch {
	case m.pressed && k == m.last:
		return pressedKeyStyle.Render(label)
	case k.Operation() != calculator.NoOperation && k.Operation() == st.Pending:
		return pendingKeyStyle.Render(label)
	case k.Operation() != calculator.NoOperation:
		return operatorKeyStyle.Render(label)
	}
	return keyStyle.Render(label)
}
