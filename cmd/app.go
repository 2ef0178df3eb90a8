// Package cmd implements the CLI application around the performance engine.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jmllr/perfolio"
	"github.com/jmllr/perfolio/date"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package calls Register(), then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&positionsCmd{}, "portfolio")
	c.Register(&metricsCmd{}, "portfolio")
	c.Register(&historyCmd{}, "portfolio")
	c.Register(&reportCmd{}, "portfolio")
}

// As a CLI application it is short lived, so global flags are fine.

var activitiesFile = flag.String("activities-file", "activities.jsonl", "Path to the activities file (JSONL format)")
var marketFile = flag.String("market-file", "market.jsonl", "Path to the market data file (JSONL format)")
var verbose = flag.Bool("v", false, "Log warnings about degraded market data lookups")

// Logger returns the CLI logger: console warnings when -v is set, silent otherwise.
func Logger() zerolog.Logger {
	if !*verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// commonFlags are the window and currency flags every computation shares.
type commonFlags struct {
	currency string
	from     string
	to       string
}

func (c *commonFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "USD", "Reporting currency code")
	f.StringVar(&c.from, "from", "", "Window start date (defaults to the first activity)")
	f.StringVar(&c.to, "to", "", "Window end date (defaults to today)")
}

// newInput loads the data files and assembles the computation context.
func (c *commonFlags) newInput() (*perfolio.Input, error) {
	activities, err := loadActivities(*activitiesFile)
	if err != nil {
		return nil, err
	}
	market, err := loadMarketData(*marketFile)
	if err != nil {
		return nil, err
	}

	var window date.Range
	if c.from != "" {
		if window.From, err = date.Parse(c.from); err != nil {
			return nil, err
		}
	}
	if c.to != "" {
		if window.To, err = date.Parse(c.to); err != nil {
			return nil, err
		}
	}

	in, err := perfolio.NewInput(activities, market, window, c.currency)
	if err != nil {
		return nil, err
	}
	in.Logger = Logger()
	return in, nil
}

func loadActivities(path string) ([]perfolio.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open activities file: %w", err)
	}
	defer f.Close()
	return perfolio.DecodeActivities(f)
}

func loadMarketData(path string) (*perfolio.MarketDataIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open market data file: %w", err)
	}
	defer f.Close()
	return perfolio.DecodeMarketData(f)
}

// fail prints the error and maps it to the subcommands exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
