package steprunner

import "github.com/arnavsurve/loopstep/pkg/types"

// StepRunner executes one kind of step. Validate checks the step definition without side effects.
type StepRunner interface {
	Validate() error
	Run() (*types.StepResult, error)
}
