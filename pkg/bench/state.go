package bench

// State is the lifecycle state of a suite run.
type State int32

const (
	StateIdle State = iota
	StateGlobalSetup
	StateExecuting
	StateGlobalTeardown
	StateReported
	// StateAborted is entered when a run stops early. It is final for that run.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGlobalSetup:
		return "global setup"
	case StateExecuting:
		return "executing"
	case StateGlobalTeardown:
		return "global teardown"
	case StateReported:
		return "reported"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
