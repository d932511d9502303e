package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"planejeja/internal/service"
	"planejeja/pkg/types/prices"

	"github.com/gin-gonic/gin"
)

// SaveSnapshots is the externally scheduled collector trigger. It is
// stateless and idempotent per minute; the hosting scheduler owns cadence.
func (c *Controller) SaveSnapshots(ctx *gin.Context) {
	if c.snapshotSvc == nil {
		errorResponse(ctx, http.StatusServiceUnavailable, "Serviço de snapshots indisponível")
		return
	}

	result, err := c.snapshotSvc.CollectOnce()
	if err != nil {
		if errors.Is(err, service.ErrUpstreamFetch) {
			internalError(ctx, "Erro ao buscar preços na Binance")
			return
		}
		internalError(ctx, "Erro interno ao salvar snapshots")
		return
	}

	// neutral runs report message-only bodies; runs that wrote snapshots
	// always carry both counts, a zero prune count included
	if result.Snapshots == 0 {
		ctx.JSON(http.StatusOK, gin.H{"message": result.Message})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListPrices returns the latest cached spot price per tracked symbol.
func (c *Controller) ListPrices(ctx *gin.Context) {
	if c.priceCache == nil {
		errorResponse(ctx, http.StatusServiceUnavailable, "Serviço de preços indisponível")
		return
	}

	priceMap := make(map[string]float64)
	for _, key := range c.priceCache.Keys() {
		if val, ok := c.priceCache.Get(key); ok {
			priceMap[key] = val
		}
	}
	ctx.JSON(http.StatusOK, priceMap)
}

// GetPriceAverages returns the mean of recent kline closes per interval for
// one symbol. Intervals that fail upstream come back as null.
func (c *Controller) GetPriceAverages(ctx *gin.Context) {
	if c.fetcher == nil {
		errorResponse(ctx, http.StatusServiceUnavailable, "Serviço de preços indisponível")
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(ctx.Query("symbol")))
	if symbol == "" {
		badRequest(ctx, "O parâmetro 'symbol' é obrigatório")
		return
	}

	averages, err := c.fetcher.FetchCloseAverages(symbol, prices.DefaultAverageIntervals)
	if err != nil {
		internalError(ctx, "Erro ao buscar as médias de preço")
		return
	}

	ctx.JSON(http.StatusOK, averages)
}

// SSESnapshots streams collector output as Server-Sent Events.
func SSESnapshots(snapshotCh <-chan []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-snapshotCh:
				if !ok {
					return false
				}
				c.SSEvent("prices", string(msg))
				c.Writer.Flush()
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
