package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/jmllr/perfolio"
)

type historyCmd struct {
	commonFlags
	step int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "compute the aggregate performance time series" }
func (*historyCmd) Usage() string {
	return `pfc history [-step <days>] [-currency <code>] [-from <date>] [-to <date>]

  Computes the dated portfolio value, net flow and cumulative time-weighted
  return over the window and prints the series as JSON.
`
}

func (h *historyCmd) SetFlags(f *flag.FlagSet) {
	h.commonFlags.set(f)
	f.IntVar(&h.step, "step", 1, "Sampling stride in days")
}

func (h *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := h.newInput()
	if err != nil {
		return fail(err)
	}
	in.Step = h.step
	series, err := perfolio.PerformanceSeries(ctx, in)
	if err != nil {
		return fail(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(series); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
