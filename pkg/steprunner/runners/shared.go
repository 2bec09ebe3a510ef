package runners

import (
	"fmt"

	"github.com/arnavsurve/loopstep/pkg/types"
)

// rejectForeignFields fails when a step sets any field that belongs to another runner type.
// allowed lists the yaml keys the kind runner owns.
func rejectForeignFields(kind string, step types.Step, allowed ...string) error {
	owned := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		owned[a] = true
	}

	set := []struct {
		key     string
		present bool
	}{
		{"run", step.Command != nil},
		{"dir", step.Dir != ""},
		{"script", step.Script != nil},
		{"args", step.Args != nil},
	}
	for _, f := range set {
		if f.present && !owned[f.key] {
			return fmt.Errorf("%s step %q must not define '%s'", kind, step.ID, f.key)
		}
	}
	return nil
}
