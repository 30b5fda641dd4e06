package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/olekukonko/tablewriter"

	"github.com/nlawrence/ausfolio"
)

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct {
	positionsFile string
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "franking credit gross-up across dividends" }
func (*dividendsCmd) Usage() string {
	return `afo dividends [-positions <file>]

  Grosses up every recorded dividend at the configured company tax rate
  and displays the attached franking credits.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.positionsFile, "positions", "positions.jsonl", "Path to the positions file (JSONL format)")
}

func (c *dividendsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := ausfolio.DefaultConfig()
	positions, err := DecodePositionsFile(cfg, c.positionsFile)
	if err != nil {
		logger.Error().Err(err).Str("file", c.positionsFile).Msg("could not load positions")
		return subcommands.ExitFailure
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Security", "Pay Date", "Amount", "Franked", "Credits", "Grossed Up"})
	for _, p := range positions {
		for d := range p.Dividends() {
			grossed, err := d.GrossUp(cfg)
			if err != nil {
				logger.Error().Err(err).Str("security", p.Ticker).Msg("could not gross up dividend")
				return subcommands.ExitFailure
			}
			table.Append([]string{
				p.Ticker,
				d.PayDate.String(),
				d.Amount.String(),
				d.Franked.String(),
				grossed.FrankingCredits.String(),
				grossed.GrossedUp.String(),
			})
		}
	}

	credits, err := ausfolio.TotalFrankingCredits(cfg, positions...)
	if err != nil {
		logger.Error().Err(err).Msg("could not total franking credits")
		return subcommands.ExitFailure
	}
	table.SetFooter([]string{"total credits", "", "", "", credits.String(), ""})
	table.Render()
	return subcommands.ExitSuccess
}
