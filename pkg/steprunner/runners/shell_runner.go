package runners

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arnavsurve/loopstep/pkg/fileutil"
	"github.com/arnavsurve/loopstep/pkg/steprunner"
	"github.com/arnavsurve/loopstep/pkg/types"
)

// ShellRunner runs a bash script, inline or from a file. It is how workflows populate the working
// directory a loop_decision step inspects.
type ShellRunner struct {
	StepCtx types.ExecutionContext
}

func init() {
	steprunner.RegisterRunnerFactory("shell", func(ctx types.ExecutionContext) (steprunner.StepRunner, error) {
		return &ShellRunner{StepCtx: ctx}, nil
	})
}

func (sr *ShellRunner) Validate() error {
	step := sr.StepCtx.Step

	if err := rejectForeignFields("shell", step, "run"); err != nil {
		return err
	}
	if step.Command == nil {
		return fmt.Errorf("shell step %q must define 'run'", step.ID)
	}
	if step.Command.Inline != "" && step.Command.Path != "" {
		return fmt.Errorf("shell step %q must only define either 'inline' or 'path'", step.ID)
	}
	if step.Command.Inline == "" && step.Command.Path == "" {
		return fmt.Errorf("shell step %q must define either 'inline' or 'path'", step.ID)
	}
	return nil
}

func (sr *ShellRunner) Run() (*types.StepResult, error) {
	if err := sr.Validate(); err != nil {
		return nil, err
	}

	step := sr.StepCtx.Step
	logger := sr.StepCtx.Logger

	interpreter := "/bin/bash"
	if step.Command.Interpreter != "" {
		interpreter = step.Command.Interpreter
	}

	var cmd *exec.Cmd
	if step.Command.Inline != "" {
		if len(step.Command.Inline) > 1000 {
			logger.Warn().Msg("Long script in 'inline' - consider passing a script file as 'path' for maintainability.")
		}
		// #nosec G204
		cmd = exec.Command(interpreter, "-c", "set -euo pipefail\n"+step.Command.Inline)
	} else {
		scriptPath := fileutil.ResolvePathFromWorkflow(sr.StepCtx.WorkflowDir, step.Command.Path)
		if _, err := os.Stat(scriptPath); err != nil {
			return nil, fmt.Errorf("script file not found at %q: %w", scriptPath, err)
		}
		// #nosec G204
		cmd = exec.Command(interpreter, scriptPath)
	}
	cmd.Dir = sr.StepCtx.WorkflowDir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	logger.Info().Str("shell", interpreter).Msg("Starting shell script execution")

	runErr := cmd.Run()

	steprunner.LogBuffer(strings.NewReader(stderrBuf.String()), "STDERR", logger, "shell_line")
	steprunner.LogBuffer(strings.NewReader(stdoutBuf.String()), "STDOUT", logger, "shell_line")

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			logger.Error().Int("exit_code", exitErr.ExitCode()).Msg("Script exited with non-zero code")
		}
		return nil, fmt.Errorf("shell script failed: %w", runErr)
	}

	logger.Info().Msg("Shell script executed successfully")

	stdout := strings.TrimSpace(stdoutBuf.String())
	var structuredOutput map[string]any
	if err := json.Unmarshal([]byte(stdout), &structuredOutput); err == nil {
		logger.Debug().Msg("Shell output was valid JSON, promoting to structured output.")
		return &types.StepResult{Output: structuredOutput}, nil
	}

	logger.Debug().Msg("Shell output was not JSON, treating as raw string output.")
	return &types.StepResult{Output: stdout}, nil
}
