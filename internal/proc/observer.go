package proc

import "time"

// Event describes one finished Execute call.
type Event struct {
	RunID    string
	Command  Command
	Dir      string
	ExitCode int
	Duration time.Duration
	// Err is the *ProcessError for a failed run, nil on success.
	Err *ProcessError
}

// Outcome returns "success" or the failure kind.
func (e Event) Outcome() string {
	if e.Err == nil {
		return "success"
	}
	return e.Err.Kind.String()
}

// Observer is notified synchronously after every run.
type Observer interface {
	ObserveRun(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// ObserveRun calls f(ev).
func (f ObserverFunc) ObserveRun(ev Event) {
	f(ev)
}
