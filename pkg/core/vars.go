package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// VarContext holds resolved input variables from the varfile.
type VarContext map[string]string

// varRegex matches {{ varName }} placeholders.
var varRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9\._-]+)\s*\}\}`)

var envRegex = regexp.MustCompile(`^\s*\{\{\s*env\.([A-Za-z0-9_]+)\s*}}\s*$`)

// ResolveVarfile loads a YAML varfile, parses it, and resolves {{ env.NAME }} values from the
// environment. Unset environment variables resolve to the empty string.
func ResolveVarfile(path string) (VarContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading varfile %q: %w", path, err)
	}

	var rawVars map[string]string
	if err := yaml.Unmarshal(data, &rawVars); err != nil {
		return nil, fmt.Errorf("parsing varfile YAML from %q: %w", path, err)
	}

	resolvedCtx := make(VarContext, len(rawVars))
	for key, val := range rawVars {
		if match := envRegex.FindStringSubmatch(val); match != nil {
			resolvedCtx[key] = os.Getenv(match[1])
			continue
		}
		resolvedCtx[key] = val
	}
	return resolvedCtx, nil
}

type templatedField struct {
	name   string
	target *string
}

// templatedFields lists every string field of step that supports {{ }} placeholders.
func templatedFields(step *Step) []templatedField {
	fields := []templatedField{{"dir", &step.Dir}}
	if step.Command != nil {
		fields = append(fields,
			templatedField{"run.path", &step.Command.Path},
			templatedField{"run.inline", &step.Command.Inline},
			templatedField{"run.interpreter", &step.Command.Interpreter},
		)
	}
	if step.Script != nil {
		fields = append(fields, templatedField{"script.path", &step.Script.Path})
	}
	for i := range step.Args {
		fields = append(fields, templatedField{fmt.Sprintf("args[%d]", i), &step.Args[i]})
	}
	return fields
}

func copyStep(step *Step) (*Step, error) {
	var copied Step
	b, err := yaml.Marshal(step)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}

// ResolveStepVariables takes a single step and resolves all its templated
// fields using the global context and the results of previously executed steps.
// The original step is left untouched so it can be resolved again on the next loop iteration.
func ResolveStepVariables(step *Step, globals VarContext, results StepResultsContext) (*Step, error) {
	resolvedStep, err := copyStep(step)
	if err != nil {
		return nil, fmt.Errorf("deep copying step for resolution: %w", err)
	}

	for _, f := range templatedFields(resolvedStep) {
		v, err := ResolveStringWithContext(*f.target, globals, results)
		if err != nil {
			return nil, fmt.Errorf("resolving %s for step %q: %w", f.name, step.ID, err)
		}
		*f.target = v
	}

	return resolvedStep, nil
}

// ResolveStringWithContext is the core template resolution engine.
func ResolveStringWithContext(input string, globals VarContext, results StepResultsContext) (string, error) {
	var firstErr error
	output := varRegex.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match
		}

		key := varRegex.FindStringSubmatch(match)[1]
		val, found := FindValueInContext(key, globals, results)
		if !found {
			firstErr = fmt.Errorf("undefined variable: %s", key)
			return match
		}
		return fmt.Sprintf("%v", val)
	})

	if firstErr != nil {
		return "", firstErr
	}
	return output, nil
}

// FindValueInContext orchestrates the lookup for a variable.
func FindValueInContext(key string, globals VarContext, results StepResultsContext) (any, bool) {
	wantsJSON := strings.HasSuffix(key, ".json")
	if wantsJSON {
		key = strings.TrimSuffix(key, ".json")
	}

	var value any
	var found bool

	if strings.HasPrefix(key, "steps.") {
		parts := strings.Split(key, ".")
		if len(parts) < 3 { // Must be at least `steps.id.field`
			return nil, false
		}
		stepID := parts[1]
		field := parts[2]

		if result, ok := results[stepID]; ok {
			switch field {
			case "output":
				value, found = GetNestedValue(result.Output, parts[3:])
			case "output_file":
				if len(parts) == 3 {
					value, found = result.OutputFile, true
				}
			case "loop":
				if len(parts) == 3 && result.Loop != nil {
					value, found = *result.Loop, true
				}
			}
		}
	} else if val, ok := globals[key]; ok {
		value, found = val, true
	}

	if !found {
		return nil, false
	}

	if wantsJSON {
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("{\"error\": \"failed to marshal to json: %v\"}", err), true
		}
		return string(jsonBytes), true
	}

	return value, true
}

// GetNestedValue traverses a data structure (map or string) using a path slice.
func GetNestedValue(data any, path []string) (any, bool) {
	if len(path) == 0 {
		return data, true
	}
	if data == nil {
		return nil, false
	}

	current := data
	for _, keyInPath := range path {
		switch typedCurrent := current.(type) {
		case map[string]any:
			val, exists := typedCurrent[keyInPath]
			if !exists {
				return nil, false
			}
			current = val
		case map[string]string:
			val, exists := typedCurrent[keyInPath]
			if !exists {
				return nil, false
			}
			current = val
		default:
			return nil, false
		}
	}
	return current, true
}

// InjectVarsIntoWorkflow resolves global variables only and leaves step references in place.
// Used for validation before any step has run.
func InjectVarsIntoWorkflow(wf *Workflow, globalVarCtx VarContext) (*Workflow, error) {
	if wf == nil {
		return nil, fmt.Errorf("injecting vars into nil workflow")
	}

	var updatedWf Workflow
	buf := new(bytes.Buffer)
	if err := yaml.NewEncoder(buf).Encode(wf); err != nil {
		return nil, err
	}
	if err := yaml.NewDecoder(buf).Decode(&updatedWf); err != nil {
		return nil, err
	}

	resolver := func(input string) string {
		return varRegex.ReplaceAllStringFunc(input, func(match string) string {
			key := varRegex.FindStringSubmatch(match)[1]
			if val, ok := globalVarCtx[key]; ok {
				return val
			}
			return match
		})
	}

	for i := range updatedWf.Steps {
		for _, f := range templatedFields(&updatedWf.Steps[i]) {
			*f.target = resolver(*f.target)
		}
	}

	return &updatedWf, nil
}
