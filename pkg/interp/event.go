package interp

// EventType names an observable interpreter step.
type EventType string

const (
	EventPrint  EventType = "print"
	EventShell  EventType = "shell"
	EventChdir  EventType = "chdir"
	EventBind   EventType = "bind"
	EventBranch EventType = "branch"
)

// Event reports one executed side effect or state change.
type Event struct {
	Type    EventType
	Line    int
	Name    string   // binding or conditional name
	Value   string   // print text, command line, path, bound label, or if target
	Values  []string // labels of a multi binding
	Multi   bool     // bind of a multi binding
	Matched bool     // branch result
	Err     error    // set when a shell or chdir failed
}

// Observer receives events as the interpreter executes lines.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) Observe(e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}
