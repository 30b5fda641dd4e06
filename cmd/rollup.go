package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/olekukonko/tablewriter"

	"github.com/nlawrence/ausfolio"
)

// rollupCmd holds the flags for the 'rollup' subcommand.
type rollupCmd struct {
	recordsFile string
}

func (*rollupCmd) Name() string     { return "rollup" }
func (*rollupCmd) Synopsis() string { return "total allocation amounts by tax category" }
func (*rollupCmd) Usage() string {
	return `afo rollup [-records <file>]

  Sums allocation dollar amounts per category across all records,
  with GST components and the deductible total.
`
}

func (c *rollupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.recordsFile, "records", "records.jsonl", "Path to the records file (JSONL format)")
}

func (c *rollupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	records, err := DecodeRecordsFile(c.recordsFile)
	if err != nil {
		logger.Error().Err(err).Str("file", c.recordsFile).Msg("could not load records")
		return subcommands.ExitFailure
	}

	cfg := ausfolio.DefaultConfig()
	totals, err := ausfolio.AllocationTotals(cfg, records...)
	if err != nil {
		logger.Error().Err(err).Msg("could not total allocations")
		return subcommands.ExitFailure
	}
	gstTotal, err := ausfolio.GSTTotal(cfg, records...)
	if err != nil {
		logger.Error().Err(err).Msg("could not total GST components")
		return subcommands.ExitFailure
	}
	deductibleTotal, err := ausfolio.DeductibleTotal(cfg, records...)
	if err != nil {
		logger.Error().Err(err).Msg("could not total deductible allocations")
		return subcommands.ExitFailure
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Amount", "GST", "Deductible"})
	for cat := range ausfolio.Categories(totals) {
		gst := "-"
		if cat.IsGSTApplicable() {
			gst = "yes"
		}
		deductible := "-"
		if cat.IsDeductible() {
			deductible = "yes"
		}
		table.Append([]string{cat.String(), totals[cat].String(), gst, deductible})
	}
	table.SetFooter([]string{"GST total", gstTotal.String(), "deductible", deductibleTotal.String()})
	table.Render()
	return subcommands.ExitSuccess
}
