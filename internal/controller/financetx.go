package controller

import (
	"net/http"
	"time"

	"planejeja/internal/models"
	"planejeja/internal/repo"
	"planejeja/pkg/money"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type financeTransactionRequest struct {
	Name          string    `json:"name"           binding:"required"`
	Type          string    `json:"type"           binding:"required,oneof=DEPOSIT EXPENSE INVESTMENT"`
	Amount        string    `json:"amount"         binding:"required"`
	Category      string    `json:"category"       binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required"`
	Date          time.Time `json:"date"           binding:"required"`
}

func (r *financeTransactionRequest) apply(tx *models.FinanceTransaction) {
	tx.Name = r.Name
	tx.Type = r.Type
	tx.Amount = r.Amount
	tx.Category = r.Category
	tx.PaymentMethod = r.PaymentMethod
	tx.Date = r.Date
}

func (c *Controller) CreateFinanceTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req financeTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Dados da transação inválidos")
		return
	}
	if _, ok := money.ParseStrict(req.Amount); !ok {
		badRequest(ctx, "Campo 'amount' inválido")
		return
	}

	tx := &models.FinanceTransaction{
		ID:     uuid.NewString(),
		UserID: user.ID,
	}
	req.apply(tx)

	if err := c.repo.CreateFinanceTransaction(tx); err != nil {
		internalError(ctx, "Erro ao criar transação")
		return
	}

	ctx.JSON(http.StatusCreated, tx)
}

func (c *Controller) ListFinanceTransactions(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	filter := repo.FinanceFilter{UserID: user.ID}
	if start, err := time.Parse(time.RFC3339, ctx.Query("start")); err == nil {
		filter.Start = &start
	}
	if end, err := time.Parse(time.RFC3339, ctx.Query("end")); err == nil {
		filter.End = &end
	}

	transactions, err := c.repo.ListFinanceTransactions(filter)
	if err != nil {
		internalError(ctx, "Erro ao buscar transações")
		return
	}

	ctx.JSON(http.StatusOK, transactions)
}

func (c *Controller) GetFinanceTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	tx, err := c.repo.GetFinanceTransaction(ctx.Param("id"), user.ID)
	if err != nil {
		notFound(ctx, "Transação não encontrada")
		return
	}

	ctx.JSON(http.StatusOK, tx)
}

func (c *Controller) UpdateFinanceTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	tx, err := c.repo.GetFinanceTransaction(ctx.Param("id"), user.ID)
	if err != nil {
		notFound(ctx, "Transação não encontrada")
		return
	}

	var req financeTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Dados da transação inválidos")
		return
	}
	if _, ok := money.ParseStrict(req.Amount); !ok {
		badRequest(ctx, "Campo 'amount' inválido")
		return
	}

	req.apply(tx)
	if err := c.repo.UpdateFinanceTransaction(tx); err != nil {
		internalError(ctx, "Erro ao atualizar transação")
		return
	}

	ctx.JSON(http.StatusOK, tx)
}

func (c *Controller) DeleteFinanceTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	if err := c.repo.DeleteFinanceTransaction(ctx.Param("id"), user.ID); err != nil {
		notFound(ctx, "Transação não encontrada")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Transação excluída com sucesso"})
}
