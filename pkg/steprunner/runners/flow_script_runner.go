package runners

import (
	"errors"
	"fmt"
	"os"

	"github.com/arnavsurve/loopstep/pkg/fileutil"
	"github.com/arnavsurve/loopstep/pkg/loop"
	"github.com/arnavsurve/loopstep/pkg/steprunner"
	"github.com/arnavsurve/loopstep/pkg/types"
	"github.com/dop251/goja"
)

// FlowScriptRunner evaluates a JavaScript flow script. The script receives the step's args as
// `args` and signals the engine by assigning a boolean to the global `loop`.
type FlowScriptRunner struct {
	StepCtx types.ExecutionContext
}

func init() {
	steprunner.RegisterRunnerFactory("flow_script", func(ctx types.ExecutionContext) (steprunner.StepRunner, error) {
		return &FlowScriptRunner{StepCtx: ctx}, nil
	})
}

func (fr *FlowScriptRunner) Validate() error {
	step := fr.StepCtx.Step
	if err := rejectForeignFields("flow_script", step, "script", "args"); err != nil {
		return err
	}
	if step.Script == nil {
		return fmt.Errorf("flow_script step %q must define 'script'", step.ID)
	}
	if step.Script.Inline != "" && step.Script.Path != "" {
		return fmt.Errorf("flow_script step %q must only define either 'inline' or 'path'", step.ID)
	}
	if step.Script.Inline == "" && step.Script.Path == "" {
		return fmt.Errorf("flow_script step %q must define either 'inline' or 'path'", step.ID)
	}
	return nil
}

func (fr *FlowScriptRunner) Run() (*types.StepResult, error) {
	if err := fr.Validate(); err != nil {
		return nil, err
	}

	step := fr.StepCtx.Step
	logger := fr.StepCtx.Logger

	source, name, err := fr.loadSource()
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	if err := fr.bindHost(vm); err != nil {
		return nil, fmt.Errorf("preparing flow script runtime: %w", err)
	}

	logger.Info().Str("script", name).Msg("Evaluating flow script")
	if _, err := vm.RunScript(name, source); err != nil {
		var exc *goja.Exception
		if errors.As(err, &exc) {
			logger.Error().Str("script", name).Msg(exc.String())
		}
		return nil, fmt.Errorf("flow script %q failed: %w", step.ID, err)
	}

	v := vm.Get("loop")
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		logger.Warn().Msg("Flow script did not assign 'loop', leaving loop signal unset")
		return &types.StepResult{Output: map[string]any{}}, nil
	}

	signal, ok := v.Export().(bool)
	if !ok {
		return nil, fmt.Errorf("flow script %q must assign a boolean to 'loop', got %T", step.ID, v.Export())
	}

	logger.Info().Bool("loop", signal).Msg("Flow script produced loop signal")
	return &types.StepResult{
		Output: map[string]any{"loop": signal},
		Loop:   &signal,
	}, nil
}

func (fr *FlowScriptRunner) loadSource() (source, name string, err error) {
	script := fr.StepCtx.Step.Script
	if script.Inline != "" {
		return script.Inline, fr.StepCtx.Step.ID + ".js", nil
	}

	path := fileutil.ResolvePathFromWorkflow(fr.StepCtx.WorkflowDir, script.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading flow script %q: %w", path, err)
	}
	return string(data), path, nil
}

// bindHost exposes the step args and the file helpers flow scripts use to make loop decisions.
func (fr *FlowScriptRunner) bindHost(vm *goja.Runtime) error {
	workflowDir := fr.StepCtx.WorkflowDir
	logger := fr.StepCtx.Logger

	args := fr.StepCtx.Step.Args
	if args == nil {
		args = []string{}
	}

	bindings := map[string]any{
		"args": args,
		"fileExists": func(path string) bool {
			_, err := os.Stat(fileutil.ResolvePathFromWorkflow(workflowDir, path))
			return err == nil
		},
		"countLines": func(path string) int {
			n, err := loop.CountFileLines(fileutil.ResolvePathFromWorkflow(workflowDir, path))
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return n
		},
		"print": func(msg string) {
			logger.Info().Str("script_line", msg).Msg("Script output")
		},
	}
	for name, value := range bindings {
		if err := vm.Set(name, value); err != nil {
			return fmt.Errorf("binding %q: %w", name, err)
		}
	}
	return nil
}
