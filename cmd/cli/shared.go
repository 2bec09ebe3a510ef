package cli

import (
	"os"

	"github.com/arnavsurve/loopstep/pkg/core"
	"github.com/arnavsurve/loopstep/pkg/types"
)

// loadVarContext resolves the varfile, falling back to an empty context when it is missing or
// unreadable. Required inputs are checked later, so a missing varfile is not fatal here.
func loadVarContext(path string, logger types.Logger) core.VarContext {
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		logger.Warn().Msgf("Varfile %s not found. Proceeding without global variables.", path)
		return make(core.VarContext)
	}

	varCtx, err := core.ResolveVarfile(path)
	if err != nil {
		logger.Warn().Err(err).Msgf("Could not resolve varfile %q, proceeding without global variables", path)
		return make(core.VarContext)
	}
	logger.Info().Msgf("Successfully loaded and resolved varfile: %s", path)
	return varCtx
}
