package main

import (
	"github.com/alecthomas/kong"
	"github.com/arnavsurve/loopstep/cmd/cli"
)

func main() {
	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("loopstep"),
		kong.Description("Run branching workflows driven by loop decisions."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
