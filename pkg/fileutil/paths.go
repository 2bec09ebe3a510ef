package fileutil

import "path/filepath"

// ResolvePathFromWorkflow resolves a path from a workflow file.
// If the provided path is already absolute, it's returned cleaned.
// If it's relative, it's joined with the workflowDir. An empty path resolves to workflowDir.
func ResolvePathFromWorkflow(workflowDir, pathFromYAML string) string {
	if filepath.IsAbs(pathFromYAML) {
		return filepath.Clean(pathFromYAML)
	}
	return filepath.Join(workflowDir, pathFromYAML)
}
