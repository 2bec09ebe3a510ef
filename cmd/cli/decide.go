package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arnavsurve/loopstep/pkg/loop"
)

// DecideCmd runs a single loop decision against a working directory, outside of any workflow.
type DecideCmd struct {
	Dir string `arg:"" help:"Working directory containing 'input' and 'output'." type:"path"`

	out io.Writer
}

func (d *DecideCmd) Run() error {
	out := d.out
	if out == nil {
		out = os.Stdout
	}

	res, err := loop.Decide(d.Dir)
	if err != nil {
		return fmt.Errorf("deciding loop for %q: %w", d.Dir, err)
	}

	signal, ok := res.Decision.Signal()
	if !ok {
		_, err = fmt.Fprintf(out, "loop=unset (%s missing)\n", res.Missing)
		return err
	}
	_, err = fmt.Fprintf(out, "loop=%t input=%d output=%d\n", signal, res.InputLines, res.OutputLines)
	return err
}
