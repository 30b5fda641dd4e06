package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/olekukonko/tablewriter"

	"github.com/nlawrence/ausfolio"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	positionsFile string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized and unrealized gain analysis" }
func (*gainsCmd) Usage() string {
	return `afo gains [-positions <file>]

  Replays each position's trade log and displays gross realized gains,
  taxable gains after the capital-gains discount, and unrealized gains.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.positionsFile, "positions", "positions.jsonl", "Path to the positions file (JSONL format)")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := ausfolio.DefaultConfig()
	positions, err := DecodePositionsFile(cfg, c.positionsFile)
	if err != nil {
		logger.Error().Err(err).Str("file", c.positionsFile).Msg("could not load positions")
		return subcommands.ExitFailure
	}

	summary, err := ausfolio.SummarizeGains(cfg, positions...)
	if err != nil {
		logger.Error().Err(err).Msg("could not summarize gains")
		return subcommands.ExitFailure
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Security", "Quantity", "Realized", "Taxable", "Unrealized"})
	for _, pg := range summary.Positions {
		table.Append([]string{
			pg.Ticker,
			pg.Quantity.String(),
			pg.Realized.SignedString(),
			pg.Taxable.SignedString(),
			pg.Unrealized.SignedString(),
		})
	}
	table.SetFooter([]string{
		"total", "",
		summary.Realized.SignedString(),
		summary.Taxable.SignedString(),
		summary.Unrealized.SignedString(),
	})
	table.Render()
	return subcommands.ExitSuccess
}
