package disperse

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/disperse-validator/internal/types"
)

var (
	// ErrNotPending is returned when a resolution is requested outside the
	// DuplicatesPending state.
	ErrNotPending = errors.New("no duplicates pending resolution")

	// ErrNotClean is returned when canonical output is requested from a
	// result that still has errors.
	ErrNotClean = errors.New("list has validation errors")
)

// State is a step of the submission cycle.
type State int

const (
	// Editing: the operator is changing the buffer.
	Editing State = iota

	// Submitted: the buffer is being validated.
	Submitted

	// Clean: no errors and no duplicates. Terminal for the cycle.
	Clean

	// ErrorsShown: line errors without duplicates. Terminal for the cycle.
	ErrorsShown

	// DuplicatesPending: duplicates found, waiting for a strategy.
	DuplicatesPending
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitted:
		return "submitted"
	case Clean:
		return "clean"
	case ErrorsShown:
		return "errors_shown"
	case DuplicatesPending:
		return "duplicates_pending"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session threads the current buffer and its last result through the
// submission cycle. Session is a value: every transition returns a new one.
//
//	Editing -> Submitted -> {Clean | ErrorsShown | DuplicatesPending}
//	DuplicatesPending --Resolve--> Editing (buffer rewritten)
//	any --Edit--> Editing
type Session struct {
	engine *Engine
	state  State
	text   string
	result Result
}

// NewSession starts a session in the Editing state.
func NewSession(engine *Engine, text string) Session {
	if engine == nil {
		engine = New()
	}
	return Session{engine: engine, state: Editing, text: text}
}

// State returns the current state.
func (s Session) State() State { return s.state }

// Text returns the current buffer.
func (s Session) Text() string { return s.text }

// Result returns the result of the last submission. It is empty while
// editing.
func (s Session) Result() Result { return s.result }

// Messages returns the error messages of the last submission.
func (s Session) Messages() []string { return s.result.Messages() }

// Edit replaces the buffer and returns to Editing.
func (s Session) Edit(text string) Session {
	return Session{engine: s.engine, state: Editing, text: text}
}

// Submit validates the current buffer.
func (s Session) Submit() Session {
	next := Session{engine: s.engine, state: Submitted, text: s.text}
	next.result = s.engine.ParseAndValidate(s.text)

	switch {
	case next.result.HasDuplicates:
		next.state = DuplicatesPending
	case next.result.Clean():
		next.state = Clean
	default:
		next.state = ErrorsShown
	}
	return next
}

// Resolve applies strategy to the pending duplicates. On success the new
// session is back in Editing with the serialized list as its buffer and no
// errors. On failure the receiver is returned unchanged with the error.
//
// Only format-valid lines take part; lines that failed tokenizing are not
// carried into the rewritten buffer.
func (s Session) Resolve(strategy types.ResolutionStrategy) (Session, error) {
	if s.state != DuplicatesPending {
		return s, fmt.Errorf("%w (state %s)", ErrNotPending, s.state)
	}

	resolved, err := s.engine.ResolveDuplicates(s.result.Entries, strategy)
	if err != nil {
		return s, fmt.Errorf("resolve duplicates: %w", err)
	}

	return Session{
		engine: s.engine,
		state:  Editing,
		text:   s.engine.Serialize(resolved),
	}, nil
}
