package prices

import "planejeja/pkg/pairs"

// PriceFetcher is the contract for an external spot-price feed.
type PriceFetcher interface {
	// FetchAllPairs returns every tradable pair with its current price in
	// one batched call.
	FetchAllPairs() ([]pairs.Pair, error)
	// FetchCloseAverages returns, per kline interval, the mean of the most
	// recent close prices for symbol. Intervals that fail are reported as
	// nil entries, not errors.
	FetchCloseAverages(symbol string, intervals []string) (map[string]*string, error)
}

// Known kline intervals for the averages endpoint.
var DefaultAverageIntervals = []string{"15m", "1h", "4h", "1d"}
