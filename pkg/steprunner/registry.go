package steprunner

import (
	"fmt"
	"sort"

	"github.com/arnavsurve/loopstep/pkg/types"
)

type RunnerFactory func(ctx types.ExecutionContext) (StepRunner, error)

// registry stores each type of step runner's factory function, keyed by the step's 'uses' field.
var registry = map[string]RunnerFactory{}

// RegisterRunnerFactory is called from each runner's init function.
func RegisterRunnerFactory(stepType string, factory RunnerFactory) {
	registry[stepType] = factory
}

// GetRunner returns an instance of the appropriate StepRunner based on the step's 'uses' field.
func GetRunner(ctx types.ExecutionContext) (StepRunner, error) {
	stepType := ctx.Step.Uses
	factory, ok := registry[stepType]
	if !ok {
		return nil, fmt.Errorf("no runner registered for type: %s", stepType)
	}

	return factory(ctx)
}

// RegisteredTypes lists the known 'uses' values in sorted order.
func RegisteredTypes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
