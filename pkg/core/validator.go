package core

import (
	"fmt"

	"github.com/arnavsurve/loopstep/pkg/steprunner"
	"github.com/arnavsurve/loopstep/pkg/types"
)

var validInputTypes = map[string]bool{
	"string":  true,
	"file":    true,
	"number":  true,
	"boolean": true,
}

// ValidateWorkflowStructure checks fields at the workflow level: name, input types and uniqueness,
// step uniqueness, and that every loop targets the declaring step or one before it.
func ValidateWorkflowStructure(wf *Workflow) error {
	if wf.Name == "" {
		return fmt.Errorf("workflow is missing 'name'")
	}

	inputNames := make(map[string]bool)
	for i, input := range wf.Inputs {
		if input.Name == "" {
			return fmt.Errorf("input %d is missing 'name'", i)
		}
		if inputNames[input.Name] {
			return fmt.Errorf("duplicate input name: %q", input.Name)
		}
		inputNames[input.Name] = true

		if !validInputTypes[input.Type] {
			return fmt.Errorf("input %q has invalid type %q", input.Name, input.Type)
		}
	}

	stepIndex := make(map[string]int)
	for i, step := range wf.Steps {
		if step.ID == "" {
			return fmt.Errorf("step %d is missing 'id'", i)
		}
		if _, dup := stepIndex[step.ID]; dup {
			return fmt.Errorf("duplicate step id: %q", step.ID)
		}
		stepIndex[step.ID] = i

		if step.Uses == "" {
			return fmt.Errorf("step %q is missing 'uses'", step.ID)
		}

		if step.Loop != nil {
			if err := validateLoop(step, stepIndex); err != nil {
				return err
			}
		}
	}

	return nil
}

// stepIndex holds only the steps declared so far, so a forward target is reported as unknown.
func validateLoop(step Step, stepIndex map[string]int) error {
	if step.Loop.Target == "" {
		return fmt.Errorf("step %q defines 'loop' without a 'target'", step.ID)
	}
	if step.Loop.MaxIterations < 0 {
		return fmt.Errorf("step %q has negative 'loop.max_iterations'", step.ID)
	}
	if _, ok := stepIndex[step.Loop.Target]; !ok {
		return fmt.Errorf("step %q loops to %q, which is not declared at or before it", step.ID, step.Loop.Target)
	}
	return nil
}

func ValidateRequiredInputs(wf *Workflow, varCtx VarContext) error {
	for _, input := range wf.Inputs {
		if input.Required {
			if _, exists := varCtx[input.Name]; !exists && input.Default == "" {
				return fmt.Errorf("required input %q is missing from the varfile and no default value is provided", input.Name)
			}
		}
	}
	return nil
}

// ApplyInputDefaults fills varCtx with defaults for inputs the varfile did not set.
func ApplyInputDefaults(wf *Workflow, varCtx VarContext) []string {
	var applied []string
	for _, input := range wf.Inputs {
		if _, exists := varCtx[input.Name]; !exists && input.Default != "" {
			varCtx[input.Name] = input.Default
			applied = append(applied, input.Name)
		}
	}
	return applied
}

func ValidateWorkflowRunners(wf *Workflow, workflowDir string) error {
	for _, step := range wf.Steps {
		ctx := types.ExecutionContext{
			Step:        step,
			WorkflowDir: workflowDir,
		}

		runner, err := steprunner.GetRunner(ctx)
		if err != nil {
			return fmt.Errorf("getting runner for step %q: %w", step.ID, err)
		}

		if err = runner.Validate(); err != nil {
			return fmt.Errorf("validating step %q: %w", step.ID, err)
		}
	}

	return nil
}
