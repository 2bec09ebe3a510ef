package runners_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arnavsurve/loopstep/pkg/log"
	"github.com/arnavsurve/loopstep/pkg/steprunner"
	"github.com/arnavsurve/loopstep/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// branchingScript mirrors the classic branching sample: loop while input has more lines than output.
const branchingScript = `
var inFile = args[0] + "/input";
var outFile = args[0] + "/output";

if (fileExists(inFile) && fileExists(outFile)) {
	loop = countLines(inFile) > countLines(outFile);
}
`

func flowScriptRunner(t *testing.T, step types.Step, workflowDir string) steprunner.StepRunner {
	t.Helper()
	step.Uses = "flow_script"
	runner, err := steprunner.GetRunner(types.ExecutionContext{
		Step:        step,
		Logger:      log.Nop(),
		WorkflowDir: workflowDir,
	})
	require.NoError(t, err)
	return runner
}

func TestFlowScriptRunner_Validate(t *testing.T) {
	tests := []struct {
		name     string
		step     types.Step
		errorMsg string
	}{
		{"missing script", types.Step{ID: "s"}, "must define 'script'"},
		{"empty script", types.Step{ID: "s", Script: &types.ScriptBlock{}}, "must define either 'inline' or 'path'"},
		{
			"inline and path",
			types.Step{ID: "s", Script: &types.ScriptBlock{Inline: "x", Path: "y.js"}},
			"must only define either 'inline' or 'path'",
		},
		{
			"foreign dir",
			types.Step{ID: "s", Dir: "w", Script: &types.ScriptBlock{Inline: "x"}},
			"must not define 'dir'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := flowScriptRunner(t, tt.step, "").Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}

	ok := flowScriptRunner(t, types.Step{ID: "s", Script: &types.ScriptBlock{Inline: "loop = true"}, Args: []string{"a"}}, "")
	assert.NoError(t, ok.Validate())
}

func TestFlowScriptRunner_BranchingScript(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		output   *string
		wantSet  bool
		wantLoop bool
	}{
		{name: "input ahead", input: "a\nb\nc\n", output: strPtr("x\n"), wantSet: true, wantLoop: true},
		{name: "equal", input: "a\nb\n", output: strPtr("x\ny\n"), wantSet: true, wantLoop: false},
		{name: "output missing", input: "a\n", output: nil, wantSet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(work, "input"), []byte(tt.input), 0644))
			if tt.output != nil {
				require.NoError(t, os.WriteFile(filepath.Join(work, "output"), []byte(*tt.output), 0644))
			}

			result, err := flowScriptRunner(t, types.Step{
				ID:     "branch",
				Script: &types.ScriptBlock{Inline: branchingScript},
				Args:   []string{work},
			}, "").Run()
			require.NoError(t, err)

			signal, ok := result.LoopSignal()
			assert.Equal(t, tt.wantSet, ok)
			assert.Equal(t, tt.wantLoop, signal)
		})
	}
}

func TestFlowScriptRunner_ScriptFromPath(t *testing.T) {
	workflowDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workflowDir, "decide.js"), []byte(`loop = args.length > 1;`), 0644))

	result, err := flowScriptRunner(t, types.Step{
		ID:     "branch",
		Script: &types.ScriptBlock{Path: "decide.js"},
		Args:   []string{"one", "two"},
	}, workflowDir).Run()
	require.NoError(t, err)
	require.NotNil(t, result.Loop)
	assert.True(t, *result.Loop)
}

func TestFlowScriptRunner_Errors(t *testing.T) {
	work := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(work, "input"), 0755))

	tests := []struct {
		name     string
		script   string
		errorMsg string
	}{
		{"non boolean loop", `loop = "yes";`, "must assign a boolean to 'loop'"},
		{"syntax error", `loop = (;`, "flow script \"branch\" failed"},
		{"thrown error", `throw new Error("boom");`, "boom"},
		{"unreadable file", `loop = countLines(args[0] + "/input") > 0;`, "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flowScriptRunner(t, types.Step{
				ID:     "branch",
				Script: &types.ScriptBlock{Inline: tt.script},
				Args:   []string{work},
			}, "").Run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func strPtr(s string) *string {
	return &s
}
