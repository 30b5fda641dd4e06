// Package cmd implements the CLI application to inspect ledger files.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/nlawrence/ausfolio"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&checkCmd{},
	&rollupCmd{},
	&gainsCmd{},
	&dividendsCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so a global
// logger is fine.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// DecodeRecordsFile loads record aggregates from a JSONL file. A missing
// file yields an empty set with a warning rather than a failure.
func DecodeRecordsFile(path string) ([]*ausfolio.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("file", path).Msg("records file does not exist, using an empty set")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ausfolio.DecodeRecords(f)
}

// DecodePositionsFile loads position aggregates from a JSONL file,
// replaying their event logs.
func DecodePositionsFile(cfg ausfolio.Config, path string) ([]*ausfolio.Position, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("file", path).Msg("positions file does not exist, using an empty set")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ausfolio.DecodePositions(cfg, f)
}
