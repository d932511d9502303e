package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPnlSeries returns the user's unrealized-profit series for one symbol.
//
// Query parameters: hours (optional, default 24) and operationId (optional,
// narrows the position to a single operation). Missing data yields an empty
// series with a success status; the empty state belongs to the client.
func (c *Controller) GetPnlSeries(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	if c.pnlSvc == nil {
		errorResponse(ctx, http.StatusServiceUnavailable, "Serviço de PnL indisponível")
		return
	}

	hours := 0.0
	if hoursParam := ctx.Query("hours"); hoursParam != "" {
		if parsed, err := strconv.ParseFloat(hoursParam, 64); err == nil {
			hours = parsed
		}
	}

	series, err := c.pnlSvc.BuildSeries(
		user.ID,
		ctx.Param("symbol"),
		hours,
		ctx.Query("operationId"),
	)
	if err != nil {
		internalError(ctx, "Erro interno ao gerar série de PnL")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": series})
}
