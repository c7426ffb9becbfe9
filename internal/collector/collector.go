package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"BoxScreener/internal/model"
)

// DefaultMajorCoins are the large caps left out of the screening universe.
var DefaultMajorCoins = []string{"BTC", "ETH", "XRP", "USDT", "USDC", "SOL", "BNB", "DOGE", "ADA", "TRX"}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Exchange model.Exchange
	Markets  []model.Market
	// Series is keyed by symbol.
	Series map[string]model.SeriesSet
	// ListErr fails ListMarkets; CandleErr fails every FetchCandles call.
	ListErr   error
	CandleErr error
}

func (m *MockFetcher) Name() model.Exchange {
	if m.Exchange == "" {
		return "mock"
	}
	return m.Exchange
}

func (m *MockFetcher) ListMarkets(_ context.Context) ([]model.Market, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.Market, len(m.Markets))
	copy(out, m.Markets)
	for i := range out {
		out[i].Exchange = m.Name()
	}
	return out, nil
}

func (m *MockFetcher) FetchCandles(_ context.Context, symbol string, tf model.Timeframe, count int) ([]model.OHLCV, error) {
	if m.CandleErr != nil {
		return nil, m.CandleErr
	}
	bars := m.Series[symbol][tf]
	if count > 0 && len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return bars, nil
}

// GenerateMockBars builds an oldest-first series drifting slightly around basePrice.
func GenerateMockBars(basePrice float64, count int, step time.Duration, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector builds the screening universe and fetches per-symbol series.
type Collector struct {
	Fetchers      []Fetcher // listing order decides duplicate resolution
	CandleCount   int
	MaxSymbols    int // per exchange, 0 means no cap
	ExcludeMajors bool
	MajorCoins    []string
}

// NewCollector creates a Collector with default candle count and majors.
func NewCollector(fetchers ...Fetcher) *Collector {
	return &Collector{
		Fetchers:      fetchers,
		CandleCount:   200,
		ExcludeMajors: true,
		MajorCoins:    DefaultMajorCoins,
	}
}

// Universe lists the markets of every exchange. A failing lister contributes
// nothing; a symbol already listed by an earlier exchange is skipped.
func (c *Collector) Universe(ctx context.Context) []model.Market {
	majors := make(map[string]bool, len(c.MajorCoins))
	for _, s := range c.MajorCoins {
		majors[strings.ToUpper(s)] = true
	}

	seen := make(map[string]bool)
	var universe []model.Market
	for _, f := range c.Fetchers {
		markets, err := f.ListMarkets(ctx)
		if err != nil {
			log.Printf("[WARN] %s market list failed: %v, skipping exchange", f.Name(), err)
			continue
		}

		kept := make([]model.Market, 0, len(markets))
		for _, m := range markets {
			sym := strings.ToUpper(m.Symbol)
			if c.ExcludeMajors && majors[sym] {
				continue
			}
			if seen[sym] {
				continue
			}
			kept = append(kept, m)
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].Volume > kept[j].Volume })
		if c.MaxSymbols > 0 && len(kept) > c.MaxSymbols {
			kept = kept[:c.MaxSymbols]
		}
		for _, m := range kept {
			seen[strings.ToUpper(m.Symbol)] = true
		}
		log.Printf("[INFO] %s: %d markets listed, %d kept", f.Name(), len(markets), len(kept))
		universe = append(universe, kept...)
	}
	return universe
}

// Series fetches all screened timeframes of one market. A failed fetch
// leaves that timeframe empty.
func (c *Collector) Series(ctx context.Context, m model.Market) model.SeriesSet {
	f := c.fetcher(m.Exchange)
	set := make(model.SeriesSet, len(model.Timeframes))
	if f == nil {
		log.Printf("[WARN] no fetcher for exchange %s", m.Exchange)
		return set
	}
	for _, tf := range model.Timeframes {
		bars, err := f.FetchCandles(ctx, m.Symbol, tf, c.CandleCount)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return set
			}
			log.Printf("[WARN] %s %s %s candles unavailable: %v", m.Exchange, m.Symbol, tf, err)
			continue
		}
		set[tf] = bars
	}
	return set
}

func (c *Collector) fetcher(ex model.Exchange) Fetcher {
	for _, f := range c.Fetchers {
		if f.Name() == ex {
			return f
		}
	}
	return nil
}

// String describes the configured exchanges for logging.
func (c *Collector) String() string {
	names := make([]string, 0, len(c.Fetchers))
	for _, f := range c.Fetchers {
		names = append(names, string(f.Name()))
	}
	return fmt.Sprintf("collector[%s]", strings.Join(names, ","))
}
