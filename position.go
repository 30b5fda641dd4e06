package ausfolio

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/nlawrence/ausfolio/date"
)

// TradeType is a typed string identifying position events.
type TradeType string

const (
	BuyTrade  TradeType = "buy"
	SellTrade TradeType = "sell"
)

// Trade is a single buy or sell event. Once applied to a position it is
// immutable: correcting a mistake requires appending a compensating
// trade, never editing history.
type Trade struct {
	ID       uuid.UUID
	Type     TradeType
	Date     date.Date
	Quantity Quantity
	Price    Money // unit price
	Fees     Money
	Memo     string
}

// NewBuy creates a buy trade.
func NewBuy(day date.Date, memo string, quantity Quantity, price, fees Money) Trade {
	return Trade{ID: uuid.New(), Type: BuyTrade, Date: day, Quantity: quantity, Price: price, Fees: fees, Memo: memo}
}

// NewSell creates a sell trade. A zero quantity signifies a "sell all"
// instruction, resolved against the position during validation.
func NewSell(day date.Date, memo string, quantity Quantity, price, fees Money) Trade {
	return Trade{ID: uuid.New(), Type: SellTrade, Date: day, Quantity: quantity, Price: price, Fees: fees, Memo: memo}
}

// Validate checks the trade's fields against a position and returns a
// copy with quick fixes applied: a zero date becomes today and a
// zero-quantity sell resolves to the full position.
func (t Trade) Validate(p *Position) (Trade, error) {
	if t.Type != BuyTrade && t.Type != SellTrade {
		return t, fmt.Errorf("%w: unknown trade type %q", ErrValidation, t.Type)
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Date.IsZero() {
		t.Date = date.Today()
	}
	if t.Type == SellTrade && t.Quantity.IsZero() {
		// quick fix, sell all.
		t.Quantity = p.quantity
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("%w: %s quantity must be positive, got %s", ErrValidation, t.Type, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return t, fmt.Errorf("%w: %s price must be positive, got %v", ErrValidation, t.Type, t.Price)
	}
	if t.Fees.IsNegative() {
		return t, fmt.Errorf("%w: %s fees must not be negative, got %v", ErrValidation, t.Type, t.Fees)
	}
	if !sameCurrency(t.Price, p.avgCost) || !sameCurrency(t.Fees, p.avgCost) {
		return t, fmt.Errorf("%w: trade currency %s does not match position currency %s", ErrValidation, t.Price.Currency(), p.avgCost.Currency())
	}
	return t, nil
}

// Equal reports whether two trades are the same event.
func (t Trade) Equal(o Trade) bool {
	return t.ID == o.ID && t.Type == o.Type && t.Date == o.Date &&
		t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price) && t.Fees.Equal(o.Fees) && t.Memo == o.Memo
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Type)
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.value)
	w.Append("fees", t.Fees.value)
	w.Optional("currency", t.Price.Currency())
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// Position is the aggregate root for investment accounting: a tradable
// instrument with an append-only log of trades and dividend payments.
// Quantity, average cost and the last-activity date are derived state,
// recomputed from the event sequence; they are never settable directly.
type Position struct {
	ID     uuid.UUID
	Ticker string

	quantity    Quantity
	avgCost     Money // weighted-average unit cost
	marketPrice Money
	lastUpdated date.Date

	trades    []Trade
	dividends []DividendPayment
}

// NewPosition creates an empty position for a ticker in the given
// currency.
func NewPosition(ticker, currency string) (*Position, error) {
	if ticker == "" {
		return nil, fmt.Errorf("%w: position ticker is missing", ErrValidation)
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Position{
		ID:          uuid.New(),
		Ticker:      ticker,
		avgCost:     M(0, currency),
		marketPrice: M(0, currency),
	}, nil
}

// NewPositionFromTrades rebuilds a position by replaying an event
// sequence, stable-sorted by date, as handed over by the persistence
// collaborator. The realized gains produced along the way are returned
// with the position.
func NewPositionFromTrades(cfg Config, ticker, currency string, trades []Trade) (*Position, []CapitalGain, error) {
	p, err := NewPosition(ticker, currency)
	if err != nil {
		return nil, nil, err
	}
	sorted := slices.Clone(trades)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var gains []CapitalGain
	for _, t := range sorted {
		_, gain, err := p.Apply(cfg, t)
		if err != nil {
			return nil, nil, fmt.Errorf("replaying %s of %s on %s: %w", t.Type, ticker, t.Date, err)
		}
		if gain != nil {
			gains = append(gains, *gain)
		}
	}
	return p, gains, nil
}

// Apply validates and applies a trade, returning the validated trade and,
// for sells, the realized capital gain classified with the position's
// average cost at the moment of sale.
//
// A buy recomputes the weighted-average cost including fees. A sell keeps
// the prior average cost for the remaining shares (moving-average
// costing, not lot tracking) and clamps the quantity at zero when more
// units are sold than held.
func (p *Position) Apply(cfg Config, t Trade) (Trade, *CapitalGain, error) {
	t, err := t.Validate(p)
	if err != nil {
		return t, nil, fmt.Errorf("invalid %s trade on %v: %w", t.Type, t.Date, err)
	}

	var gain *CapitalGain
	switch t.Type {
	case BuyTrade:
		// newAverage = (held*avg + qty*price + fees) / (held + qty)
		currentCost := p.avgCost.Mul(p.quantity)
		newCost := currentCost.Add(t.Price.Mul(t.Quantity)).Add(t.Fees)
		newQuantity := p.quantity.Add(t.Quantity)
		p.avgCost = newCost.Div(newQuantity)
		p.quantity = newQuantity
	case SellTrade:
		g := ClassifySale(cfg, p.Ticker, p.avgCost, t, p.lastUpdated)
		gain = &g
		remaining := p.quantity.Sub(t.Quantity)
		if remaining.IsNegative() {
			// Overselling clamps to zero rather than failing; see the
			// compensating-event correction model.
			remaining = Q(0)
		}
		p.quantity = remaining
	}
	p.trades = append(p.trades, t)
	p.lastUpdated = t.Date
	return t, gain, nil
}

// ApplyDividend validates and records a dividend payment against the
// position.
func (p *Position) ApplyDividend(d DividendPayment) (DividendPayment, error) {
	d, err := d.Validate(p)
	if err != nil {
		return d, fmt.Errorf("invalid dividend on %v: %w", d.PayDate, err)
	}
	p.dividends = append(p.dividends, d)
	// Dividend activity refreshes the position's last-activity date,
	// which in turn feeds the discount holding-period rule.
	p.lastUpdated = d.PayDate
	return d, nil
}

// SetMarketPrice records the current market price of the instrument.
func (p *Position) SetMarketPrice(price Money) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: market price must not be negative, got %v", ErrValidation, price)
	}
	if !sameCurrency(price, p.avgCost) {
		return fmt.Errorf("%w: price currency %s does not match position currency %s", ErrValidation, price.Currency(), p.avgCost.Currency())
	}
	p.marketPrice = M(price.value, p.avgCost.Currency())
	return nil
}

// Quantity returns the number of units currently held.
func (p *Position) Quantity() Quantity { return p.quantity }

// AverageCost returns the weighted-average unit cost of the holding.
func (p *Position) AverageCost() Money { return p.avgCost }

// MarketPrice returns the last recorded market price.
func (p *Position) MarketPrice() Money { return p.marketPrice }

// LastUpdated returns the date of the last applied trade or dividend.
func (p *Position) LastUpdated() date.Date { return p.lastUpdated }

// BookValue returns quantity times average cost.
func (p *Position) BookValue() Money { return p.avgCost.Mul(p.quantity) }

// MarketValue returns quantity times the last market price.
func (p *Position) MarketValue() Money { return p.marketPrice.Mul(p.quantity) }

// UnrealizedGain returns market value minus book value.
func (p *Position) UnrealizedGain() Money { return p.MarketValue().Sub(p.BookValue()) }

// Currency returns the position's accounting currency.
func (p *Position) Currency() string { return p.avgCost.code() }

// Trades returns an iterator over the applied trades in application
// order.
func (p *Position) Trades() iter.Seq2[int, Trade] {
	return func(yield func(int, Trade) bool) {
		for i, t := range p.trades {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Dividends returns an iterator over the recorded dividend payments.
func (p *Position) Dividends() iter.Seq[DividendPayment] {
	return func(yield func(DividendPayment) bool) {
		for _, d := range p.dividends {
			if !yield(d) {
				return
			}
		}
	}
}

// RealizedGains replays the trade log and returns the capital gain
// produced by each sell, classified with the average cost in force at
// that point of the sequence.
func (p *Position) RealizedGains(cfg Config) []CapitalGain {
	_, gains, err := NewPositionFromTrades(cfg, p.Ticker, p.Currency(), p.trades)
	if err != nil {
		// The log was validated on the way in; a replay failure means
		// the aggregate was tampered with outside the API.
		return nil
	}
	return gains
}

// Clone returns an independent deep copy of the position.
func (p *Position) Clone() *Position {
	clone := *p
	clone.trades = slices.Clone(p.trades)
	clone.dividends = slices.Clone(p.dividends)
	return &clone
}

// MarshalJSON implements the json.Marshaler interface for Position.
func (p *Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", "position")
	w.Append("id", p.ID)
	w.Append("ticker", p.Ticker)
	w.Append("currency", p.Currency())
	w.Optional("marketPrice", p.marketPrice.value)
	return w.MarshalJSON()
}
