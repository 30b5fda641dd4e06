package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/olekukonko/tablewriter"

	"github.com/nlawrence/ausfolio"
)

// checkCmd holds the flags for the 'check' subcommand.
type checkCmd struct {
	recordsFile string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify record decomposition and allocation completeness" }
func (*checkCmd) Usage() string {
	return `afo check [-records <file>]

  Reports, per record, whether line items sum back to the record amount
  and whether every line item is fully allocated.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.recordsFile, "records", "records.jsonl", "Path to the records file (JSONL format)")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	records, err := DecodeRecordsFile(c.recordsFile)
	if err != nil {
		logger.Error().Err(err).Str("file", c.recordsFile).Msg("could not load records")
		return subcommands.ExitFailure
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Record", "Amount", "Line Total", "Remainder", "Balanced", "Allocated"})
	ok := true
	for _, r := range records {
		status := ausfolio.CheckDecomposition(r)
		if !status.Balanced || !status.FullyAllocated {
			ok = false
		}
		table.Append([]string{
			r.Note,
			r.Amount.String(),
			status.LineTotal.String(),
			status.Remainder.SignedString(),
			yesNo(status.Balanced),
			yesNo(status.FullyAllocated),
		})
	}
	table.Render()

	if !ok {
		logger.Warn().Msg("some records are not fully decomposed")
	}
	return subcommands.ExitSuccess
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
