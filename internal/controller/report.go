package controller

import (
	"errors"
	"net/http"

	"planejeja/internal/service"

	"github.com/gin-gonic/gin"
)

type reportRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year"  binding:"required"`
}

// CreateReport generates the monthly AI financial report. Premium plan only.
func (c *Controller) CreateReport(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	if c.reportSvc == nil {
		errorResponse(ctx, http.StatusServiceUnavailable, "Relatórios indisponíveis")
		return
	}

	var req reportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Dados do relatório inválidos")
		return
	}

	report, err := c.reportSvc.BuildMonthlyReport(ctx.Request.Context(), user, req.Month, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPremiumRequired):
			forbidden(ctx, "Recurso disponível apenas para assinantes premium")
		case errors.Is(err, service.ErrInvalidReportMonth):
			badRequest(ctx, "Mês de referência inválido")
		default:
			internalError(ctx, "Erro ao gerar relatório")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"report": report})
}
