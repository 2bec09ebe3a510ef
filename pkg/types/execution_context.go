package types

// ExecutionContext contains the context needed for step execution
type ExecutionContext struct {
	Step        Step
	Logger      Logger
	WorkflowDir string
}

// Step represents a workflow step
type Step struct {
	ID      string        `yaml:"id"`
	Uses    string        `yaml:"uses"`             // 'loop_decision' | 'flow_script' | 'shell'
	Command *CommandBlock `yaml:"run,omitempty"`    // (if uses: shell) command line
	Dir     string        `yaml:"dir,omitempty"`    // (if uses: loop_decision) working directory holding input and output
	Script  *ScriptBlock  `yaml:"script,omitempty"` // (if uses: flow_script) JavaScript source
	Args    []string      `yaml:"args,omitempty"`   // (if uses: flow_script) bound to the script's args array
	Loop    *LoopConfig   `yaml:"loop,omitempty"`   // jump back to Target while the step signals loop=true
}

// CommandBlock represents a shell command to run
type CommandBlock struct {
	Path        string `yaml:"path,omitempty"`
	Inline      string `yaml:"inline,omitempty"`
	Interpreter string `yaml:"interpreter,omitempty"`
}

// ScriptBlock holds a flow script, either inline or as a file path.
type ScriptBlock struct {
	Path   string `yaml:"path,omitempty"`
	Inline string `yaml:"inline,omitempty"`
}

// LoopConfig is the loop flow action attached to a step.
type LoopConfig struct {
	Target        string `yaml:"target"`
	MaxIterations int    `yaml:"max_iterations,omitempty"`
}

// DefaultMaxIterations bounds a loop whose max_iterations is left at zero.
const DefaultMaxIterations = 100

// Limit returns the effective iteration cap.
func (l *LoopConfig) Limit() int {
	if l == nil || l.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return l.MaxIterations
}
