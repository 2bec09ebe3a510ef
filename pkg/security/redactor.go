// Package security masks secret input values before they reach log sinks.
package security

import (
	"sort"
	"strings"

	"github.com/arnavsurve/loopstep/pkg/core"
)

const Mask = "********"

type Redactor struct {
	Secrets  []string
	replacer *strings.Replacer
}

// NewRedactor collects the values of all inputs marked secret. Longer secrets are matched first so
// a secret that contains another is masked whole.
func NewRedactor(inputs []core.Input, varCtx core.VarContext) *Redactor {
	var secrets []string
	for _, input := range inputs {
		if !input.Secret {
			continue
		}
		if val, ok := varCtx[input.Name]; ok && val != "" {
			secrets = append(secrets, val)
		}
	}
	sort.SliceStable(secrets, func(i, j int) bool {
		return len(secrets[i]) > len(secrets[j])
	})

	pairs := make([]string, 0, len(secrets)*2)
	for _, s := range secrets {
		pairs = append(pairs, s, Mask)
	}
	return &Redactor{Secrets: secrets, replacer: strings.NewReplacer(pairs...)}
}

func (r *Redactor) Redact(s string) string {
	if r == nil || len(r.Secrets) == 0 {
		return s
	}
	return r.replacer.Replace(s)
}

// RedactValue masks strings inside decoded JSON values (strings, maps and slices, recursively).
func (r *Redactor) RedactValue(v any) any {
	switch t := v.(type) {
	case string:
		return r.Redact(t)
	case map[string]any:
		for k, vv := range t {
			t[k] = r.RedactValue(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = r.RedactValue(vv)
		}
		return t
	default:
		return v
	}
}
