package interp

// Mode is the interpreter's current parsing context.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelect
	ModeMultiSelect
	ModeSearchSelect
	ModeIfTrue
	ModeIfFalse
)

// Conditional returns the conditional mode for an evaluated if.
func Conditional(matched bool) Mode {
	if matched {
		return ModeIfTrue
	}
	return ModeIfFalse
}

// Collecting reports whether m gathers options for a choice block.
func (m Mode) Collecting() bool {
	return m == ModeSelect || m == ModeMultiSelect || m == ModeSearchSelect
}

// InConditional reports whether m is inside an if block.
func (m Mode) InConditional() bool {
	return m == ModeIfTrue || m == ModeIfFalse
}

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSelect:
		return "select"
	case ModeMultiSelect:
		return "multiselect"
	case ModeSearchSelect:
		return "searchselect"
	case ModeIfTrue:
		return "if(true)"
	case ModeIfFalse:
		return "if(false)"
	}
	return "unknown"
}
