package controller

import (
	"net/http"
	"strings"
	"time"

	"planejeja/internal/models"
	"planejeja/pkg/money"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type cryptoTransactionRequest struct {
	Token          string    `json:"token"            binding:"required"`
	Type           string    `json:"type"             binding:"required,oneof=buy sell"`
	Amount         string    `json:"amount"           binding:"required"`
	USDValue       string    `json:"usd_value"        binding:"required"`
	Price          string    `json:"price"            binding:"required"`
	Date           time.Time `json:"date"             binding:"required"`
	SellTokenPrice *string   `json:"sell_token_price"`
	ProfitSell     *string   `json:"profit_sell"`
}

func (r *cryptoTransactionRequest) validate() string {
	if _, ok := money.ParseStrict(r.Amount); !ok {
		return "Campo 'amount' inválido"
	}
	if _, ok := money.ParseStrict(r.USDValue); !ok {
		return "Campo 'usd_value' inválido"
	}
	if _, ok := money.ParseStrict(r.Price); !ok {
		return "Campo 'price' inválido"
	}
	return ""
}

func (r *cryptoTransactionRequest) apply(tx *models.CryptoTransaction) {
	tx.Token = strings.ToUpper(strings.TrimSpace(r.Token))
	tx.Type = r.Type
	tx.Amount = r.Amount
	tx.USDValue = r.USDValue
	tx.Price = r.Price
	tx.Date = r.Date
	tx.SellTokenPrice = r.SellTokenPrice
	tx.ProfitSell = r.ProfitSell
}

func (c *Controller) CreateCryptoTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req cryptoTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Dados da transação inválidos")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(ctx, msg)
		return
	}

	tx := &models.CryptoTransaction{
		ID:     uuid.NewString(),
		UserID: user.ID,
	}
	req.apply(tx)

	if err := c.repo.CreateCryptoTransaction(tx); err != nil {
		internalError(ctx, "Erro ao criar transação")
		return
	}

	ctx.JSON(http.StatusCreated, tx)
}

func (c *Controller) ListCryptoTransactions(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	transactions, err := c.repo.ListCryptoTransactions(user.ID)
	if err != nil {
		internalError(ctx, "Erro ao buscar transações")
		return
	}

	ctx.JSON(http.StatusOK, transactions)
}

func (c *Controller) GetCryptoTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	tx, err := c.repo.GetCryptoTransaction(ctx.Param("id"), user.ID)
	if err != nil {
		notFound(ctx, "Transação não encontrada")
		return
	}

	ctx.JSON(http.StatusOK, tx)
}

func (c *Controller) UpdateCryptoTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	tx, err := c.repo.GetCryptoTransaction(ctx.Param("id"), user.ID)
	if err != nil {
		notFound(ctx, "Transação não encontrada")
		return
	}

	var req cryptoTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Dados da transação inválidos")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(ctx, msg)
		return
	}

	req.apply(tx)
	if err := c.repo.UpdateCryptoTransaction(tx); err != nil {
		internalError(ctx, "Erro ao atualizar transação")
		return
	}

	ctx.JSON(http.StatusOK, tx)
}

func (c *Controller) DeleteCryptoTransaction(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	if err := c.repo.DeleteCryptoTransaction(ctx.Param("id"), user.ID); err != nil {
		notFound(ctx, "Transação não encontrada")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Transação excluída com sucesso"})
}
