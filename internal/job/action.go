package job

// ActionKind identifies what a task asks the engine to do next.
type ActionKind int

const (
	actionNone ActionKind = iota
	// ActionNext advances to the following task.
	ActionNext
	// ActionRepeat runs the same task again.
	ActionRepeat
	// ActionGoto jumps to the first task after a label.
	ActionGoto
	// ActionDone finishes the job regardless of the remaining tasks.
	ActionDone
)

func (k ActionKind) String() string {
	switch k {
	case ActionNext:
		return "next"
	case ActionRepeat:
		return "repeat"
	case ActionGoto:
		return "goto"
	case ActionDone:
		return "done"
	default:
		return "none"
	}
}

// Action is the result of running a task, it always carries the new state.
// Build it with [Next], [Repeat], [Goto] or [Done]; the zero value is not an
// action and makes the run fail.
type Action[S any] struct {
	kind  ActionKind
	label string
	state S
}

// Kind returns the action kind.
func (a Action[S]) Kind() ActionKind { return a.kind }

// Label returns the target label of a goto action.
func (a Action[S]) Label() string { return a.label }

// State returns the state carried by the action.
func (a Action[S]) State() S { return a.state }

// Next advances to the following task with state.
func Next[S any](state S) Action[S] {
	return Action[S]{kind: ActionNext, state: state}
}

// Repeat runs the current task again with state.
func Repeat[S any](state S) Action[S] {
	return Action[S]{kind: ActionRepeat, state: state}
}

// Goto jumps to the first task after the label. The label is checked when the
// action is interpreted, not here.
func Goto[S any](label string, state S) Action[S] {
	return Action[S]{kind: ActionGoto, label: label, state: state}
}

// Done finishes the job with state as its result.
func Done[S any](state S) Action[S] {
	return Action[S]{kind: ActionDone, state: state}
}
