package core

import (
	"errors"
	"fmt"

	"github.com/arnavsurve/loopstep/pkg/steprunner"
	"github.com/arnavsurve/loopstep/pkg/types"
)

// ErrLoopLimit is returned when a loop keeps signalling true past its max_iterations.
var ErrLoopLimit = errors.New("loop iteration limit exceeded")

type WorkflowEngine struct {
	Logger Logger
}

func NewWorkflowEngine(logger Logger) *WorkflowEngine {
	return &WorkflowEngine{
		Logger: logger,
	}
}

// ExecuteWorkflow runs the steps in order. After a step that declares a loop, a true loop signal
// jumps back to the loop target; false or no signal moves on to the next step.
func (e *WorkflowEngine) ExecuteWorkflow(
	wf *Workflow,
	varCtx VarContext,
	initialStepResults StepResultsContext,
	workflowDir string,
) (StepResultsContext, error) {
	stepResults := initialStepResults
	if stepResults == nil {
		stepResults = make(StepResultsContext)
	}

	stepIndex := make(map[string]int, len(wf.Steps))
	for i, step := range wf.Steps {
		stepIndex[step.ID] = i
	}
	iterations := make(map[string]int)

	for i := 0; i < len(wf.Steps); {
		step := wf.Steps[i]
		e.Logger.Info().Msgf("Running step %q (uses=%s)", step.ID, step.Uses)

		resolvedStep, err := ResolveStepVariables(&step, varCtx, stepResults)
		if err != nil {
			return stepResults, fmt.Errorf("could not resolve variables for step %q: %w", step.ID, err)
		}

		scopedLogger := e.Logger.With().Str("step_id", resolvedStep.ID).Str("step_type", resolvedStep.Uses).Logger()

		execCtx := types.ExecutionContext{
			Step:        *resolvedStep,
			Logger:      scopedLogger,
			WorkflowDir: workflowDir,
		}

		runner, err := steprunner.GetRunner(execCtx)
		if err != nil {
			return stepResults, fmt.Errorf("error getting runner for step %q: %w", resolvedStep.ID, err)
		}

		result, err := runner.Run()
		if err != nil {
			return stepResults, fmt.Errorf("error running step %q: %w", resolvedStep.ID, err)
		}

		if result != nil {
			e.Logger.Debug().Msgf("Storing result for step %q", resolvedStep.ID)
			stepResults[resolvedStep.ID] = *result
		}

		next := i + 1
		if step.Loop != nil {
			next, err = e.nextAfterLoop(step, result, iterations, stepIndex, next, scopedLogger)
			if err != nil {
				return stepResults, err
			}
		}
		i = next
	}

	return stepResults, nil
}

func (e *WorkflowEngine) nextAfterLoop(
	step Step,
	result *types.StepResult,
	iterations map[string]int,
	stepIndex map[string]int,
	next int,
	logger Logger,
) (int, error) {
	loop, ok := result.LoopSignal()
	switch {
	case !ok:
		// The step gave no answer. Treat that as "do not loop" but make it visible.
		logger.Warn().Msgf("Step %q produced no loop signal, continuing past the loop", step.ID)
		iterations[step.ID] = 0
		return next, nil
	case !loop:
		logger.Info().Int("iterations", iterations[step.ID]).Msgf("Loop on %q finished", step.Loop.Target)
		iterations[step.ID] = 0
		return next, nil
	}

	iterations[step.ID]++
	if iterations[step.ID] > step.Loop.Limit() {
		return 0, fmt.Errorf("step %q looped back to %q more than %d times: %w",
			step.ID, step.Loop.Target, step.Loop.Limit(), ErrLoopLimit)
	}

	target, found := stepIndex[step.Loop.Target]
	if !found {
		return 0, fmt.Errorf("step %q loops to unknown step %q", step.ID, step.Loop.Target)
	}
	logger.Info().Int("iteration", iterations[step.ID]).Msgf("Looping back to step %q", step.Loop.Target)
	return target, nil
}
