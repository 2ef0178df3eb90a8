package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/jmllr/perfolio"
)

type reportCmd struct {
	commonFlags
	strategy string
	plain    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render a portfolio performance summary" }
func (*reportCmd) Usage() string {
	return `pfc report [-strategy twr|mwr] [-plain]

  Computes the current positions and renders them as a styled markdown
  summary. With -plain the raw markdown is printed instead.
`
}

func (r *reportCmd) SetFlags(f *flag.FlagSet) {
	r.commonFlags.set(f)
	f.StringVar(&r.strategy, "strategy", "twr", "Return strategy (twr or mwr)")
	f.BoolVar(&r.plain, "plain", false, "Print raw markdown without terminal styling")
}

func (r *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	strategy, err := perfolio.ParseStrategy(r.strategy)
	if err != nil {
		return fail(err)
	}
	in, err := r.newInput()
	if err != nil {
		return fail(err)
	}
	cp, err := perfolio.ComputePositions(ctx, in, strategy)
	if err != nil {
		return fail(err)
	}
	md, err := perfolio.RenderReport(cp)
	if err != nil {
		return fail(err)
	}
	if r.plain {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Styling is cosmetic; fall back to the raw markdown.
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
