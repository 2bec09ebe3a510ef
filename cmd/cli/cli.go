// Package cli holds the loopstep command tree.
package cli

// CLI is the root kong grammar.
type CLI struct {
	Run    RunCmd    `cmd:"" help:"Run a workflow."`
	Lint   LintCmd   `cmd:"" help:"Validate a workflow without running it."`
	Decide DecideCmd `cmd:"" help:"Print the loop decision for a working directory."`
}
