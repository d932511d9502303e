package binanceprices

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"planejeja/pkg/pairs"
	"planejeja/pkg/types/prices"
)

var _ prices.PriceFetcher = (*PriceFetcher)(nil)

const klineLimit = 10

type PriceFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewPriceFetcher() *PriceFetcher {
	return &PriceFetcher{
		BaseURL: "https://api.binance.com/api/v3",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAllPairs returns the full ticker book in one batched call.
func (b *PriceFetcher) FetchAllPairs() ([]pairs.Pair, error) {
	endpoint := fmt.Sprintf("%s/ticker/price", b.BaseURL)

	resp, err := b.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var results []pairs.Pair
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return results, nil
}

// FetchCloseAverages computes, per interval, the mean of the last few kline
// close prices for the USDT pair of symbol. A failed interval yields a nil
// entry instead of aborting the whole map.
func (b *PriceFetcher) FetchCloseAverages(symbol string, intervals []string) (map[string]*string, error) {
	averages := make(map[string]*string, len(intervals))

	for _, interval := range intervals {
		avg, err := b.fetchCloseAverage(symbol, interval)
		if err != nil {
			averages[interval] = nil
			continue
		}
		formatted := strconv.FormatFloat(avg, 'f', 2, 64)
		averages[interval] = &formatted
	}

	return averages, nil
}

func (b *PriceFetcher) fetchCloseAverage(symbol, interval string) (float64, error) {
	endpoint := fmt.Sprintf("%s/klines?symbol=%s%s&interval=%s&limit=%d",
		b.BaseURL, symbol, pairs.QuoteUSDT, interval, klineLimit)

	resp, err := b.Client.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch klines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// each candle is [openTime, open, high, low, close, ...]; close is index 4
	var candles [][]any
	if err := json.NewDecoder(resp.Body).Decode(&candles); err != nil {
		return 0, fmt.Errorf("failed to decode klines: %w", err)
	}

	var sum float64
	var count int
	for _, candle := range candles {
		if len(candle) < 5 {
			continue
		}
		closeStr, ok := candle[4].(string)
		if !ok {
			continue
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}
		sum += closePrice
		count++
	}

	if count == 0 {
		return 0, fmt.Errorf("no close prices for %s %s", symbol, interval)
	}

	return sum / float64(count), nil
}
