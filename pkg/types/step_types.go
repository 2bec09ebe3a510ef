package types

// StepResult is the standardized output structure returned by every runner's Run method.
// Loop is nil when the step produced no loop signal.
type StepResult struct {
	Output     any    `json:"output"`
	OutputFile string `json:"output_file,omitempty"`
	Loop       *bool  `json:"loop,omitempty"`
}

// LoopSignal returns the step's loop signal and whether one was set.
func (r *StepResult) LoopSignal() (bool, bool) {
	if r == nil || r.Loop == nil {
		return false, false
	}
	return *r.Loop, true
}
