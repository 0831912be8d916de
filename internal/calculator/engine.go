package calculator

import (
	"math"
	"strings"
)

const zeroDisplay = "0"

// State is a read-only snapshot of an Engine.
type State struct {
	Display        string
	Pending        Operation
	Accumulator    float64
	LastOperand    float64
	DecimalEntered bool
	Finalized      bool
}

// Finite reports whether the display holds a finite number. It is false for
// Inf and NaN results as well as while an operator glyph is shown.
func (s State) Finite() bool {
	v, ok := parseDisplay(s.Display)
	return ok && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// NonFinite reports whether the display shows Inf or NaN, for example after
// a division by zero.
func (s State) NonFinite() bool {
	v, ok := parseDisplay(s.Display)
	return ok && (math.IsInf(v, 0) || math.IsNaN(v))
}

// Engine is the calculator's state machine. It turns key presses into a
// running accumulator and the text to display.
//
// An Engine is not safe for concurrent use; each one has a single owner.
type Engine struct {
	display        string
	pending        Operation
	accumulator    float64
	lastOperand    float64
	decimalEntered bool
	finalized      bool
}

// NewEngine returns an engine in the cleared state, displaying "0".
func NewEngine() *Engine {
	e := &Engine{}
	e.clear()
	return e
}

// Display returns the current display text.
func (e *Engine) Display() string {
	return e.display
}

// State returns a snapshot of the engine.
func (e *Engine) State() State {
	return State{
		Display:        e.display,
		Pending:        e.pending,
		Accumulator:    e.accumulator,
		LastOperand:    e.lastOperand,
		DecimalEntered: e.decimalEntered,
		Finalized:      e.finalized,
	}
}

// Handle applies one key press and returns the new display text.
// Unrecognized keys leave the state untouched.
func (e *Engine) Handle(k Key) string {
	switch {
	case k == Clear:
		e.clear()
	case k == ToggleSign:
		e.toggleSign()
	case k.IsDigit():
		e.digit(k)
	case k == Dot:
		e.dot()
	case k == Percent:
		e.percent()
	case k == Equals:
		e.equals()
	case k.Operation() != NoOperation:
		e.operator(k)
	}
	return e.display
}

func (e *Engine) clear() {
	*e = Engine{display: zeroDisplay}
}

func (e *Engine) toggleSign() {
	if _, ok := parseDisplay(e.display); !ok {
		return
	}
	if rest, ok := strings.CutPrefix(e.display, glyphs[Subtract]); ok {
		e.display = rest
		return
	}
	e.display = glyphs[Subtract] + e.display
}

func (e *Engine) digit(k Key) {
	d := k.String()
	minus := glyphs[Subtract]

	switch {
	case e.display == zeroDisplay:
		e.display = d
	case e.display == minus+zeroDisplay:
		e.display = minus + d
	case e.finalized:
		e.clear()
		e.display = d
	case e.numeric():
		e.display += d
	default:
		e.display = d
	}
	e.finalized = false
}

func (e *Engine) dot() {
	switch {
	case e.display == "" || e.finalized:
		e.clear()
		e.decimalEntered = true
		e.display = zeroDisplay + glyphs[Dot]
	case !e.decimalEntered && e.numeric():
		e.decimalEntered = true
		e.display += glyphs[Dot]
	case !e.decimalEntered:
		e.decimalEntered = true
		e.display = zeroDisplay + glyphs[Dot]
	}
}

func (e *Engine) percent() {
	if v, ok := parseDisplay(e.display); ok {
		if e.pending != NoOperation && !e.finalized {
			e.accumulator = e.pending.Apply(e.accumulator, v) / 100
		} else {
			e.accumulator = v / 100
		}
		e.display = formatValue(e.accumulator)
	}
	e.pending = NoOperation
	e.finalized = true
	e.decimalEntered = true
}

func (e *Engine) equals() {
	v, ok := parseDisplay(e.display)
	if !ok || e.pending == NoOperation {
		return
	}
	if !e.finalized {
		e.lastOperand = v
		e.finalized = true
	}
	e.accumulator = e.pending.Apply(e.accumulator, e.lastOperand)
	e.display = formatValue(e.accumulator)
}

func (e *Engine) operator(k Key) {
	if v, ok := parseDisplay(e.display); ok {
		if e.pending != NoOperation && !e.finalized {
			e.accumulator = e.pending.Apply(e.accumulator, v)
		} else {
			e.accumulator = v
			e.decimalEntered = false
		}
	}
	e.pending = k.Operation()
	e.display = k.String()
	e.finalized = false
}

func (e *Engine) numeric() bool {
	_, ok := parseDisplay(e.display)
	return ok
}
