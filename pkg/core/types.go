package core

import "github.com/arnavsurve/loopstep/pkg/types"

type StepResultsContext = map[string]types.StepResult

type Input struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required,omitempty"`
	Secret   bool   `yaml:"secret,omitempty"`
	Default  string `yaml:"default,omitempty"`
}

type Workflow struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Inputs      []Input `yaml:"inputs"`
	Steps       []Step  `yaml:"steps"`
}

type Step = types.Step

type CommandBlock = types.CommandBlock

type ScriptBlock = types.ScriptBlock

type LoopConfig = types.LoopConfig

type ExecutionContext = types.ExecutionContext

type Logger = types.Logger
