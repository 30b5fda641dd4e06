package ausfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nlawrence/ausfolio/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The JSONL codecs below are the hand-off surface for the persistence
// collaborator: one self-identifying object per line, children referring
// to their parents by ID. The engine does not open files itself; callers
// pass readers and writers.

// amountFields is a specialized struct to read an amount in two fields.
type amountFields struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountFields) Money() Money { return M(a.Amount, a.Currency) }

// encodeLine marshals v and writes it as a single JSONL line.
func encodeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal line: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}

// EncodeRecords writes records with their line items and allocations as
// JSONL, children after their parents.
func EncodeRecords(w io.Writer, records ...*Record) error {
	for _, r := range records {
		if err := encodeLine(w, r); err != nil {
			return err
		}
		for li := range r.LineItems() {
			if err := encodeLine(w, li); err != nil {
				return err
			}
			for a := range li.Allocations() {
				if err := encodeLine(w, a); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DecodeRecords reads a JSONL stream produced by EncodeRecords and
// reassembles the record aggregates. Line items and allocations must
// follow the record they belong to. Every reassembled allocation set is
// re-validated; in-progress (partial) sets are accepted, broken ones are
// not.
func DecodeRecords(r io.Reader) ([]*Record, error) {
	var records []*Record
	byID := make(map[uuid.UUID]*Record)
	lineOwner := make(map[uuid.UUID]*Record) // line item ID -> record

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var identifier struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify kind in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Kind {
		case "record":
			var temp struct {
				amountFields
				ID             uuid.UUID      `json:"id"`
				Date           date.Date      `json:"date"`
				Category       Category       `json:"category"`
				Classification Classification `json:"classification"`
				Note           string         `json:"note"`
				Unit           uuid.UUID      `json:"unit"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			rec, err := NewRecord(temp.Date, temp.Note, temp.Money(), temp.Category, temp.Classification)
			if err != nil {
				return nil, err
			}
			rec.ID = temp.ID
			rec.Unit = temp.Unit
			records = append(records, rec)
			byID[rec.ID] = rec
		case "line-item":
			var temp struct {
				amountFields
				ID          uuid.UUID `json:"id"`
				Record      uuid.UUID `json:"record"`
				Description string    `json:"description"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			rec, ok := byID[temp.Record]
			if !ok {
				return nil, fmt.Errorf("%w: line item %s refers to unknown record %s", ErrConsistency, temp.ID, temp.Record)
			}
			li, err := rec.AddLineItem(temp.Description, temp.Money())
			if err != nil {
				return nil, err
			}
			// Keep the persisted identity, not the freshly minted one.
			rec.lineItems[rec.lineItemIndex(li.ID)].ID = temp.ID
			lineOwner[temp.ID] = rec
		case "allocation":
			var temp struct {
				ID       uuid.UUID       `json:"id"`
				LineItem uuid.UUID       `json:"lineItem"`
				Percent  decimal.Decimal `json:"percent"`
				Category Category        `json:"category"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			rec, ok := lineOwner[temp.LineItem]
			if !ok {
				return nil, fmt.Errorf("%w: allocation %s refers to unknown line item %s", ErrConsistency, temp.ID, temp.LineItem)
			}
			if _, err := rec.AddAllocation(temp.LineItem, Pct(temp.Percent), temp.Category); err != nil {
				return nil, err
			}
			i := rec.lineItemIndex(temp.LineItem)
			allocs := rec.lineItems[i].allocations
			allocs[len(allocs)-1].ID = temp.ID
		default:
			return nil, fmt.Errorf("unknown line kind: %q", identifier.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return records, nil
}

// EncodePositions writes positions with their trade and dividend logs as
// JSONL, events after their position header.
func EncodePositions(w io.Writer, positions ...*Position) error {
	for _, p := range positions {
		if err := encodeLine(w, p); err != nil {
			return err
		}
		for _, t := range p.Trades() {
			if err := encodeLine(w, t); err != nil {
				return err
			}
		}
		for d := range p.Dividends() {
			if err := encodeLine(w, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodePositions reads a JSONL stream produced by EncodePositions and
// rebuilds each position by replaying its event log through the normal
// application path, so all derived state is recomputed rather than
// trusted from disk.
func DecodePositions(cfg Config, r io.Reader) ([]*Position, error) {
	type pending struct {
		id          uuid.UUID
		ticker      string
		currency    string
		marketPrice decimal.Decimal
		trades      []Trade
		dividends   []DividendPayment
	}
	var all []*pending
	var current *pending

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var identifier struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify kind in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Kind {
		case "position":
			var temp struct {
				ID          uuid.UUID       `json:"id"`
				Ticker      string          `json:"ticker"`
				Currency    string          `json:"currency"`
				MarketPrice decimal.Decimal `json:"marketPrice"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			current = &pending{id: temp.ID, ticker: temp.Ticker, currency: temp.Currency, marketPrice: temp.MarketPrice}
			all = append(all, current)
		case string(BuyTrade), string(SellTrade):
			if current == nil {
				return nil, fmt.Errorf("%w: trade before any position header", ErrConsistency)
			}
			var temp struct {
				ID       uuid.UUID       `json:"id"`
				Date     date.Date       `json:"date"`
				Quantity Quantity        `json:"quantity"`
				Price    decimal.Decimal `json:"price"`
				Fees     decimal.Decimal `json:"fees"`
				Currency string          `json:"currency"`
				Memo     string          `json:"memo"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			current.trades = append(current.trades, Trade{
				ID:       temp.ID,
				Type:     TradeType(identifier.Kind),
				Date:     temp.Date,
				Quantity: temp.Quantity,
				Price:    M(temp.Price, temp.Currency),
				Fees:     M(temp.Fees, temp.Currency),
				Memo:     temp.Memo,
			})
		case "dividend":
			if current == nil {
				return nil, fmt.Errorf("%w: dividend before any position header", ErrConsistency)
			}
			var temp struct {
				ID       uuid.UUID       `json:"id"`
				ExDate   date.Date       `json:"exDate"`
				PayDate  date.Date       `json:"payDate"`
				Amount   decimal.Decimal `json:"amount"`
				Franked  decimal.Decimal `json:"franked"`
				Currency string          `json:"currency"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			current.dividends = append(current.dividends, DividendPayment{
				ID:      temp.ID,
				Amount:  M(temp.Amount, temp.Currency),
				Franked: M(temp.Franked, temp.Currency),
				ExDate:  temp.ExDate,
				PayDate: temp.PayDate,
			})
		default:
			return nil, fmt.Errorf("unknown line kind: %q", identifier.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	positions := make([]*Position, 0, len(all))
	for _, pd := range all {
		p, _, err := NewPositionFromTrades(cfg, pd.ticker, pd.currency, pd.trades)
		if err != nil {
			return nil, err
		}
		p.ID = pd.id
		for _, d := range pd.dividends {
			if _, err := p.ApplyDividend(d); err != nil {
				return nil, err
			}
		}
		if !pd.marketPrice.IsZero() {
			if err := p.SetMarketPrice(M(pd.marketPrice, pd.currency)); err != nil {
				return nil, err
			}
		}
		positions = append(positions, p)
	}
	return positions, nil
}
