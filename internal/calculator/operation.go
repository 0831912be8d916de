package calculator

// Operation is an arithmetic operator waiting for its second operand.
type Operation int

const (
	NoOperation Operation = iota
	Addition
	Subtraction
	Multiplication
	Division
)

func (op Operation) String() string {
	switch op {
	case Addition:
		return "add"
	case Subtraction:
		return "subtract"
	case Multiplication:
		return "multiply"
	case Division:
		return "divide"
	}
	return ""
}

// Apply returns a op b. Division by zero follows IEEE-754 and yields
// ±Inf or NaN. Applying NoOperation is a programming error and panics.
func (op Operation) Apply(a, b float64) float64 {
	switch op {
	case Addition:
		return a + b
	case Subtraction:
		return a - b
	case Multiplication:
		return a * b
	case Division:
		return a / b
	}
	panic("calculator: apply with no pending operation")
}
