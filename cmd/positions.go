package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/jmllr/perfolio"
)

type positionsCmd struct {
	commonFlags
	strategy string
}

func (*positionsCmd) Name() string { return "positions" }
func (*positionsCmd) Synopsis() string {
	return "compute current positions and overall portfolio performance"
}
func (*positionsCmd) Usage() string {
	return `pfc positions [-strategy twr|mwr] [-currency <code>] [-from <date>] [-to <date>]

  Computes every held instrument's position and the portfolio totals over
  the window, in the reporting currency, and prints the result as JSON.
`
}

func (p *positionsCmd) SetFlags(f *flag.FlagSet) {
	p.commonFlags.set(f)
	f.StringVar(&p.strategy, "strategy", "twr", "Return strategy (twr or mwr)")
}

func (p *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	strategy, err := perfolio.ParseStrategy(p.strategy)
	if err != nil {
		return fail(err)
	}
	in, err := p.newInput()
	if err != nil {
		return fail(err)
	}
	cp, err := perfolio.ComputePositions(ctx, in, strategy)
	if err != nil {
		return fail(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cp); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
