package runners

import (
	"fmt"

	"github.com/arnavsurve/loopstep/pkg/fileutil"
	"github.com/arnavsurve/loopstep/pkg/loop"
	"github.com/arnavsurve/loopstep/pkg/steprunner"
	"github.com/arnavsurve/loopstep/pkg/types"
)

// LoopDecisionRunner compares the line counts of dir/input and dir/output and reports whether the
// workflow should loop again.
type LoopDecisionRunner struct {
	StepCtx types.ExecutionContext
}

func init() {
	steprunner.RegisterRunnerFactory("loop_decision", func(ctx types.ExecutionContext) (steprunner.StepRunner, error) {
		return &LoopDecisionRunner{StepCtx: ctx}, nil
	})
}

func (lr *LoopDecisionRunner) Validate() error {
	step := lr.StepCtx.Step
	if err := rejectForeignFields("loop_decision", step, "dir"); err != nil {
		return err
	}
	if step.Dir == "" {
		return fmt.Errorf("loop_decision step %q must define 'dir'", step.ID)
	}
	return nil
}

func (lr *LoopDecisionRunner) Run() (*types.StepResult, error) {
	if err := lr.Validate(); err != nil {
		return nil, err
	}

	logger := lr.StepCtx.Logger
	dir := fileutil.ResolvePathFromWorkflow(lr.StepCtx.WorkflowDir, lr.StepCtx.Step.Dir)

	res, err := loop.Decide(dir)
	if err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("Loop decision failed")
		return nil, fmt.Errorf("deciding loop for %q: %w", dir, err)
	}

	output := map[string]any{
		"decision":     res.Decision.String(),
		"input_lines":  res.InputLines,
		"output_lines": res.OutputLines,
	}
	result := &types.StepResult{Output: output}

	signal, ok := res.Decision.Signal()
	if !ok {
		logger.Warn().Str("dir", dir).Str("missing", res.Missing).
			Msg("Working directory is incomplete, leaving loop signal unset")
		return result, nil
	}

	output["loop"] = signal
	result.Loop = &signal
	logger.Info().
		Int("input_lines", res.InputLines).
		Int("output_lines", res.OutputLines).
		Bool("loop", signal).
		Msgf("Loop decision: %s", res.Decision)
	return result, nil
}
