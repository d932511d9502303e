package pairs

import (
	"math"
	"strconv"
	"strings"
)

// QuoteUSDT is the quote currency the snapshot collector tracks. Binance
// reports pairs like BTCUSDT; the base asset is the pair with the quote
// suffix stripped.
const QuoteUSDT = "USDT"

// Pair is one entry of the Binance /ticker/price response.
type Pair struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// BaseFromUSDT extracts the uppercased base asset from a USDT-quoted pair
// symbol. It reports false for pairs quoted in anything else.
func BaseFromUSDT(pairSymbol string) (string, bool) {
	if !strings.HasSuffix(pairSymbol, QuoteUSDT) {
		return "", false
	}
	base := strings.ToUpper(strings.TrimSuffix(pairSymbol, QuoteUSDT))
	if base == "" {
		return "", false
	}
	return base, true
}

// ParsePrice converts a ticker price string to float64. Malformed,
// non-finite and non-positive values all yield 0 so callers can skip the
// entry without failing the batch.
func ParsePrice(priceStr string) float64 {
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return 0
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0
	}
	return price
}
