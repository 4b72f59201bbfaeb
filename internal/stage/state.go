package stage

// State tracks the linear stage lifecycle:
//
//	Idle → ArgsResolved → InputRead → Transformed → OutputWritten → Committed
//
// Any failure moves to Failed from wherever it happened. There are no retries
// and no rollback.
type State string

const (
	StateIdle          State = "IDLE"
	StateArgsResolved  State = "ARGS_RESOLVED"
	StateInputRead     State = "INPUT_READ"
	StateTransformed   State = "TRANSFORMED"
	StateOutputWritten State = "OUTPUT_WRITTEN"
	StateCommitted     State = "COMMITTED"
	StateFailed        State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateCommitted || s == StateFailed
}
