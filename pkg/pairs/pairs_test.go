package pairs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseFromUSDT(t *testing.T) {
	tests := []struct {
		pair string
		base string
		ok   bool
	}{
		{"BTCUSDT", "BTC", true},
		{"ethusdt", "", false},
		{"SOLUSDT", "SOL", true},
		{"BTCUSDC", "", false},
		{"BTCEUR", "", false},
		{"USDT", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			base, ok := BaseFromUSDT(tt.pair)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.base, base)
		})
	}
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 87222.51, ParsePrice("87222.51"))
	assert.Equal(t, 0.0, ParsePrice("not-a-price"))
	assert.Equal(t, 0.0, ParsePrice("-1.5"))
	assert.Equal(t, 0.0, ParsePrice("0"))
	assert.Equal(t, 0.0, ParsePrice("Inf"))
	assert.Equal(t, 0.0, ParsePrice("NaN"))
}
