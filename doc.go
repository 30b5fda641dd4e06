// Package ausfolio implements the accounting core of a personal finance
// ledger: decomposition of financial records into line items and
// percentage-based category allocations, and position accounting over
// append-only trade logs.
//
// The core functionalities include:
//   - Record Decomposition: splitting a record into line items and
//     allocations while enforcing the percentage-sum invariant on every
//     committed mutation.
//   - Tax Computation: GST components and deductibility classification
//     per allocation, driven by an injected Config rather than
//     compiled-in rates.
//   - Position Accounting: weighted-average cost over an immutable,
//     chronological trade log, with realized gains classified for the
//     capital-gains discount and dividend franking credits grossed up
//     at the configured company tax rate.
//   - Rollups: read-only aggregations (allocation totals by category,
//     realized and unrealized gains, franking credits) for external
//     reporting collaborators.
//   - Data Persistence: encoding and decoding of records and trade
//     logs to and from human-readable, version-controllable JSONL.
//
// The package performs no I/O of its own beyond the explicit JSONL
// codecs; durability, display formatting and access control are the
// responsibility of external collaborators. It serves as the
// foundational logic for the `afo` command-line tool.
package ausfolio
