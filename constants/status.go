package constants

// RunState is the orchestrator state, logged on every transition.
type RunState string

// Stable values (these exact strings appear in logs).
const (
	StateAwaitingRasterization RunState = "AWAITING_RASTERIZATION"
	StateResuming              RunState = "RESUMING"
	StateRasterized            RunState = "RASTERIZED"
	StateDetected              RunState = "DETECTED"
	StateAnalyzed              RunState = "ANALYZED"
	StateValidated             RunState = "VALIDATED"
	StateRendered              RunState = "RENDERED"
	StateAssembled             RunState = "ASSEMBLED"
	StateFailed                RunState = "FAILED" // terminal failure
)
