package cli

import (
	"fmt"
	"path/filepath"

	"github.com/arnavsurve/loopstep/pkg/core"
	"github.com/arnavsurve/loopstep/pkg/log"
	"github.com/arnavsurve/loopstep/pkg/log/sinks"
	"github.com/arnavsurve/loopstep/pkg/security"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	// Ensure all runner implementations are initialized
	_ "github.com/arnavsurve/loopstep/pkg/steprunner/runners"
)

type RunCmd struct {
	Varfile  string `help:"The YAML varfile for input variables." default:"lsvars.yml"`
	Workflow string `help:"The workflow configuration file." default:"loopstep.yml"`
	LogsDir  string `help:"Directory for JSON run logs." default:".loopstep/logs"`
}

func (r *RunCmd) Run() error {
	wfRunID := uuid.New().String()

	logFilePath := filepath.Join(r.LogsDir, fmt.Sprintf("%s.json", wfRunID))
	fileSink, err := sinks.NewFileSink(logFilePath)
	if err != nil {
		return fmt.Errorf("creating file log sink: %w", err)
	}

	logRouter := log.NewRouter(sinks.NewConsoleSink(), fileSink)
	cmdLogger := log.NewLogger(logRouter)

	cmdLogger.Info().Msgf("Starting workflow run with ID: %s", wfRunID)
	cmdLogger.Info().Msgf("Logs will be saved to %q", logFilePath)

	defer func() {
		cmdLogger.Info().Msg("Shutting down logger...")
		if err := logRouter.Close(); err != nil {
			fmt.Printf("Error during log shutdown: %v", err)
		}
	}()

	if err := godotenv.Load(); err != nil {
		cmdLogger.Warn().Err(err).Msg("No .env file found or error thrown while loading it. Relying on existing ENV if vars use {{ env.* }}")
	}

	wf, err := core.LoadWorkflowFromFile(r.Workflow)
	if err != nil {
		cmdLogger.Error().Err(err).Msgf("Failed to load workflow file %s", r.Workflow)
		return fmt.Errorf("loading workflow file %q: %w", r.Workflow, err)
	}
	cmdLogger.Info().Msgf("Successfully loaded workflow: %q", wf.Name)

	workflowAbsPath, err := filepath.Abs(r.Workflow)
	if err != nil {
		return fmt.Errorf("determining absolute path for workflow file %q: %w", r.Workflow, err)
	}
	workflowDir := filepath.Dir(workflowAbsPath)

	varCtx := loadVarContext(r.Varfile, cmdLogger)
	for _, name := range core.ApplyInputDefaults(wf, varCtx) {
		cmdLogger.Debug().Msgf("Using default value for input %q", name)
	}

	if err := core.ValidateRequiredInputs(wf, varCtx); err != nil {
		cmdLogger.Error().Err(err).Msg("Required input validation failed")
		return err
	}

	logRouter.Redactor = security.NewRedactor(wf.Inputs, varCtx)

	validationWf, err := core.InjectVarsIntoWorkflow(wf, varCtx)
	if err != nil {
		return fmt.Errorf("resolving global variables for workflow validation: %w", err)
	}
	if err := core.ValidateWorkflowRunners(validationWf, workflowDir); err != nil {
		cmdLogger.Error().Err(err).Msg("Workflow runner validation failed")
		return fmt.Errorf("validating workflow runner: %w", err)
	}
	cmdLogger.Info().Msg("Workflow validation passed")

	cmdLogger.Info().Msgf("Executing workflow: %q", wf.Name)
	engine := core.NewWorkflowEngine(cmdLogger)
	if _, err := engine.ExecuteWorkflow(wf, varCtx, nil, workflowDir); err != nil {
		cmdLogger.Error().Err(err).Msg("Workflow failed")
		return err
	}

	cmdLogger.Info().Msgf("Workflow completed successfully. Logs can be found at %q", logFilePath)
	return nil
}
