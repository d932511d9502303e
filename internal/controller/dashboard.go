package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"planejeja/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDashboard consolidates the user's finances for the period selected by
// the "option" query parameter (mensal, anual or geral). Month and year
// default to the current date when absent.
func (c *Controller) GetDashboard(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	if c.dashboardSvc == nil {
		errorResponse(ctx, http.StatusServiceUnavailable, "Dashboard indisponível")
		return
	}

	now := time.Now().UTC()
	option := ctx.DefaultQuery("option", service.PeriodMonthly)
	month := intQuery(ctx, "month", int(now.Month()))
	year := intQuery(ctx, "year", now.Year())

	totals, err := c.dashboardSvc.Totals(user.ID, option, month, year)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPeriod) {
			badRequest(ctx, "Período inválido")
			return
		}
		internalError(ctx, "Erro ao montar o dashboard")
		return
	}

	ctx.JSON(http.StatusOK, totals)
}

func intQuery(ctx *gin.Context, key string, fallback int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
