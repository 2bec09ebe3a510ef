package cli

import (
	"fmt"
	"path/filepath"

	"github.com/arnavsurve/loopstep/pkg/core"
	"github.com/arnavsurve/loopstep/pkg/log"
	"github.com/arnavsurve/loopstep/pkg/log/sinks"
	"github.com/arnavsurve/loopstep/pkg/steprunner"
	"github.com/arnavsurve/loopstep/pkg/types"
	"github.com/joho/godotenv"

	_ "github.com/arnavsurve/loopstep/pkg/steprunner/runners"
)

type LintCmd struct {
	Varfile  string `help:"The YAML varfile for input variables." default:"lsvars.yml"`
	Workflow string `help:"The workflow configuration file." default:"loopstep.yml"`
}

func (l *LintCmd) Run() error {
	cmdLogger := log.NewLogger(log.NewRouter(sinks.NewConsoleSink()))

	cmdLogger.Info().Msgf("Validating %s using %s", l.Workflow, l.Varfile)

	if err := godotenv.Load(); err != nil {
		cmdLogger.Warn().Err(err).Msg("No .env file found or error thrown while loading it. Relying on existing ENV if vars use {{ env.* }}")
	}

	wf, err := core.LoadWorkflowFromFile(l.Workflow)
	if err != nil {
		cmdLogger.Error().Err(err).Msgf("Failed to load workflow file %s", l.Workflow)
		return fmt.Errorf("loading workflow file %q: %w", l.Workflow, err)
	}
	cmdLogger.Info().Msgf("Successfully loaded workflow: %s", wf.Name)

	workflowAbsPath, err := filepath.Abs(l.Workflow)
	if err != nil {
		return fmt.Errorf("determining absolute path for workflow file %q: %w", l.Workflow, err)
	}
	workflowDir := filepath.Dir(workflowAbsPath)

	varCtx := loadVarContext(l.Varfile, cmdLogger)
	core.ApplyInputDefaults(wf, varCtx)

	if err := core.ValidateRequiredInputs(wf, varCtx); err != nil {
		cmdLogger.Error().Err(err).Msg("Required input validation failed")
		return fmt.Errorf("validating required inputs: %w", err)
	}

	validationWf, err := core.InjectVarsIntoWorkflow(wf, varCtx)
	if err != nil {
		return fmt.Errorf("resolving global variables for workflow: %w", err)
	}

	for _, stepConfig := range validationWf.Steps {
		stepLogger := cmdLogger.With().
			Str("step_id", stepConfig.ID).
			Str("step_uses", stepConfig.Uses).
			Logger()

		runner, err := steprunner.GetRunner(types.ExecutionContext{
			Step:        stepConfig,
			Logger:      stepLogger,
			WorkflowDir: workflowDir,
		})
		if err != nil {
			stepLogger.Error().Err(err).Msg("Error getting runner for step")
			return fmt.Errorf("getting runner for step %q: %w", stepConfig.ID, err)
		}

		if err := runner.Validate(); err != nil {
			stepLogger.Error().Err(err).Msg("Step configuration validation failed")
			return fmt.Errorf("validating step %q (uses: %s): %w", stepConfig.ID, stepConfig.Uses, err)
		}

		if stepConfig.Loop != nil {
			stepLogger.Info().Int("max_iterations", stepConfig.Loop.Limit()).
				Msgf("Step loops back to %q", stepConfig.Loop.Target)
		}
		stepLogger.Info().Msg("Step configuration validation passed")
	}

	cmdLogger.Info().Msg("Successfully validated workflow configuration ✅")
	return nil
}
