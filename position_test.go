package ausfolio

import (
	"errors"
	"testing"

	"github.com/nlawrence/ausfolio/date"
)

func newTestPosition(t *testing.T) *Position {
	t.Helper()
	p, err := NewPosition("VAS", "AUD")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	return p
}

func TestBuyAveragesCostWithFees(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)

	// 10 units at $100 with a $5 fee cost $1005 in total.
	if _, _, err := p.Apply(cfg, NewBuy(date.MustParse("2025-01-10"), "", Q(10), A(100), A(5))); err != nil {
		t.Fatalf("Apply(buy): %v", err)
	}
	if !p.Quantity().Equal(Q(10)) {
		t.Errorf("quantity = %s, want 10", p.Quantity())
	}
	if !p.AverageCost().Equal(A(100.50)) {
		t.Errorf("average cost = %v, want $100.50", p.AverageCost())
	}

	// A second buy reweights: (10*100.50 + 10*120 + 5) / 20 = 110.50.
	if _, _, err := p.Apply(cfg, NewBuy(date.MustParse("2025-02-10"), "", Q(10), A(120), A(5))); err != nil {
		t.Fatalf("Apply(second buy): %v", err)
	}
	if !p.Quantity().Equal(Q(20)) {
		t.Errorf("quantity = %s, want 20", p.Quantity())
	}
	if !p.AverageCost().Equal(A(110.50)) {
		t.Errorf("average cost = %v, want $110.50", p.AverageCost())
	}
}

func TestSellKeepsAverageCost(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)

	if _, _, err := p.Apply(cfg, NewBuy(date.MustParse("2025-01-10"), "", Q(10), A(100), A(0))); err != nil {
		t.Fatalf("Apply(buy): %v", err)
	}
	_, gain, err := p.Apply(cfg, NewSell(date.MustParse("2025-03-10"), "", Q(4), A(130), A(0)))
	if err != nil {
		t.Fatalf("Apply(sell): %v", err)
	}
	if gain == nil {
		t.Fatal("Apply(sell) returned no capital gain")
	}
	if !p.Quantity().Equal(Q(6)) {
		t.Errorf("quantity = %s, want 6", p.Quantity())
	}
	// Moving-average costing: the remaining units keep the prior average.
	if !p.AverageCost().Equal(A(100)) {
		t.Errorf("average cost = %v, want $100.00", p.AverageCost())
	}
	if !gain.Gross.Equal(A(120)) {
		t.Errorf("gross gain = %v, want $120.00", gain.Gross)
	}
}

func TestSellAllQuickFix(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)

	if _, _, err := p.Apply(cfg, NewBuy(date.MustParse("2025-01-10"), "", Q(10), A(100), A(0))); err != nil {
		t.Fatalf("Apply(buy): %v", err)
	}
	// A zero-quantity sell resolves to the full position.
	sold, _, err := p.Apply(cfg, NewSell(date.MustParse("2025-06-10"), "closing out", Q(0), A(110), A(0)))
	if err != nil {
		t.Fatalf("Apply(sell all): %v", err)
	}
	if !sold.Quantity.Equal(Q(10)) {
		t.Errorf("validated sell quantity = %s, want 10", sold.Quantity)
	}
	if !p.Quantity().IsZero() {
		t.Errorf("quantity = %s, want exactly 0", p.Quantity())
	}
}

func TestOversellClampsToZero(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)

	if _, _, err := p.Apply(cfg, NewBuy(date.MustParse("2025-01-10"), "", Q(10), A(100), A(0))); err != nil {
		t.Fatalf("Apply(buy): %v", err)
	}
	if _, _, err := p.Apply(cfg, NewSell(date.MustParse("2025-02-10"), "", Q(15), A(110), A(0))); err != nil {
		t.Fatalf("Apply(oversell): %v", err)
	}
	if !p.Quantity().IsZero() {
		t.Errorf("quantity after oversell = %s, want 0", p.Quantity())
	}
}

func TestTradeValidation(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)

	testCases := []struct {
		name  string
		trade Trade
	}{
		{name: "negative quantity", trade: NewBuy(date.Today(), "", Q(-1), A(100), A(0))},
		{name: "zero price", trade: NewBuy(date.Today(), "", Q(1), A(0), A(0))},
		{name: "negative fees", trade: NewBuy(date.Today(), "", Q(1), A(100), A(-2))},
		{name: "currency mismatch", trade: NewBuy(date.Today(), "", Q(1), M(100, "USD"), M(0, "USD"))},
		{name: "sell from empty position", trade: NewSell(date.Today(), "", Q(0), A(100), A(0))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := p.Apply(cfg, tc.trade); !errors.Is(err, ErrValidation) {
				t.Errorf("Apply() = %v, want ErrValidation", err)
			}
		})
	}

	// Rejected trades leave the position untouched.
	if !p.Quantity().IsZero() || len(p.RealizedGains(cfg)) != 0 {
		t.Error("rejected trades must not mutate the position")
	}
}

func TestUnrealizedGain(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)

	if _, _, err := p.Apply(cfg, NewBuy(date.MustParse("2025-01-10"), "", Q(10), A(100), A(5))); err != nil {
		t.Fatalf("Apply(buy): %v", err)
	}
	if err := p.SetMarketPrice(A(120)); err != nil {
		t.Fatalf("SetMarketPrice: %v", err)
	}
	if !p.BookValue().Equal(A(1005)) {
		t.Errorf("book value = %v, want $1005.00", p.BookValue())
	}
	if !p.MarketValue().Equal(A(1200)) {
		t.Errorf("market value = %v, want $1200.00", p.MarketValue())
	}
	if !p.UnrealizedGain().Equal(A(195)) {
		t.Errorf("unrealized gain = %v, want $195.00", p.UnrealizedGain())
	}

	if err := p.SetMarketPrice(A(-1)); !errors.Is(err, ErrValidation) {
		t.Errorf("SetMarketPrice(-1) = %v, want ErrValidation", err)
	}
	if err := p.SetMarketPrice(M(120, "USD")); !errors.Is(err, ErrValidation) {
		t.Errorf("SetMarketPrice(USD) = %v, want ErrValidation", err)
	}
}

func TestReplayMatchesLiveState(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)

	events := []Trade{
		NewBuy(date.MustParse("2024-01-10"), "", Q(10), A(100), A(5)),
		NewBuy(date.MustParse("2024-06-10"), "", Q(10), A(120), A(5)),
		NewSell(date.MustParse("2025-03-01"), "", Q(5), A(140), A(5)),
	}
	for _, e := range events {
		if _, _, err := p.Apply(cfg, e); err != nil {
			t.Fatalf("Apply(%s): %v", e.Type, err)
		}
	}

	replayed, gains, err := NewPositionFromTrades(cfg, p.Ticker, p.Currency(), events)
	if err != nil {
		t.Fatalf("NewPositionFromTrades: %v", err)
	}
	if !replayed.Quantity().Equal(p.Quantity()) {
		t.Errorf("replayed quantity = %s, live %s", replayed.Quantity(), p.Quantity())
	}
	if !replayed.AverageCost().Equal(p.AverageCost()) {
		t.Errorf("replayed average cost = %v, live %v", replayed.AverageCost(), p.AverageCost())
	}
	if len(gains) != 1 {
		t.Fatalf("replay produced %d gains, want 1", len(gains))
	}
	live := p.RealizedGains(cfg)
	if len(live) != 1 || !live[0].Gross.Equal(gains[0].Gross) {
		t.Errorf("RealizedGains() disagrees with replay: %v vs %v", live, gains)
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)
	q := p.Clone()

	// The same buy on two independent positions derives the same state.
	buy := NewBuy(date.MustParse("2025-01-10"), "", Q(10), A(100), A(5))
	if _, _, err := p.Apply(cfg, buy); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, _, err := q.Apply(cfg, buy); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !p.Quantity().Equal(q.Quantity()) || !p.AverageCost().Equal(q.AverageCost()) {
		t.Errorf("diverged: %s@%v vs %s@%v", p.Quantity(), p.AverageCost(), q.Quantity(), q.AverageCost())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPosition(t)
	if _, _, err := p.Apply(cfg, NewBuy(date.MustParse("2025-01-10"), "", Q(10), A(100), A(0))); err != nil {
		t.Fatalf("Apply(buy): %v", err)
	}

	clone := p.Clone()
	if _, _, err := clone.Apply(cfg, NewSell(date.MustParse("2025-02-10"), "", Q(10), A(110), A(0))); err != nil {
		t.Fatalf("Apply(sell on clone): %v", err)
	}

	if !p.Quantity().Equal(Q(10)) {
		t.Errorf("original quantity = %s after mutating clone, want 10", p.Quantity())
	}
	if !clone.Quantity().IsZero() {
		t.Errorf("clone quantity = %s, want 0", clone.Quantity())
	}
}
