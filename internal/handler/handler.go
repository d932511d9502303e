package handler

import (
	"errors"
	"net/http"

	"planejeja/internal/controller"
	"planejeja/internal/repo"
	"planejeja/internal/service"
	"planejeja/pkg/types/cache"
	"planejeja/pkg/types/prices"

	"github.com/gin-gonic/gin"
)

var (
	ErrNilEngine          = errors.New("engine is required")
	ErrNilRepository      = errors.New("repository is required")
	ErrNilSnapshotChannel = errors.New("snapshot channel is required")
)

type Handler struct {
	engine        *gin.Engine
	repository    *repo.Repository
	snapshotCh    <-chan []byte
	snapshotCHSet bool
	priceCache    cache.Cache[string, float64]
	fetcher       prices.PriceFetcher
	snapshotSvc   *service.SnapshotService
	pnlSvc        *service.PnlService
	dashboardSvc  *service.DashboardService
	reportSvc     *service.ReportService
	rateLimiter   *RateLimiter
}

func (h *Handler) IsValid() error {
	if h.engine == nil {
		return ErrNilEngine
	}
	if h.repository == nil {
		return ErrNilRepository
	}
	if h.snapshotCHSet && h.snapshotCh == nil {
		return ErrNilSnapshotChannel
	}
	return nil
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithRepository(repository *repo.Repository) Option {
	return func(h *Handler) {
		h.repository = repository
	}
}

func WithSnapshotChannel(ch <-chan []byte) Option {
	return func(h *Handler) {
		h.snapshotCh = ch
		h.snapshotCHSet = true
	}
}

func WithPriceCache(pc cache.Cache[string, float64]) Option {
	return func(h *Handler) {
		h.priceCache = pc
	}
}

func WithPriceFetcher(f prices.PriceFetcher) Option {
	return func(h *Handler) {
		h.fetcher = f
	}
}

func WithSnapshotService(svc *service.SnapshotService) Option {
	return func(h *Handler) {
		h.snapshotSvc = svc
	}
}

func WithPnlService(svc *service.PnlService) Option {
	return func(h *Handler) {
		h.pnlSvc = svc
	}
}

func WithDashboardService(svc *service.DashboardService) Option {
	return func(h *Handler) {
		h.dashboardSvc = svc
	}
}

func WithReportService(svc *service.ReportService) Option {
	return func(h *Handler) {
		h.reportSvc = svc
	}
}

func WithRateLimiter(rl *RateLimiter) Option {
	return func(h *Handler) {
		h.rateLimiter = rl
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

// Setup builds the controller and registers the route table. The collector
// trigger and the health check are public; everything else sits behind the
// API-key middleware and the per-user rate limiter.
func (h *Handler) Setup() error {
	ctrl, err := controller.New(
		controller.WithRepository(h.repository),
		controller.WithPriceCache(h.priceCache),
		controller.WithPriceFetcher(h.fetcher),
		controller.WithSnapshotService(h.snapshotSvc),
		controller.WithPnlService(h.pnlSvc),
		controller.WithDashboardService(h.dashboardSvc),
		controller.WithReportService(h.reportSvc),
	)
	if err != nil {
		return err
	}

	h.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := h.engine.Group("/api")

	// public surface; the trigger is a GET so plain external cron services
	// can call it
	api.GET("/prices/save", ctrl.SaveSnapshots)

	authed := api.Group("")
	authed.Use(authMiddleware(h.repository))
	if h.rateLimiter != nil {
		authed.Use(rateLimitMiddleware(h.rateLimiter))
	}

	cryptoTxs := authed.Group("/crypto-transactions")
	cryptoTxs.POST("", ctrl.CreateCryptoTransaction)
	cryptoTxs.GET("", ctrl.ListCryptoTransactions)
	cryptoTxs.GET("/:id", ctrl.GetCryptoTransaction)
	cryptoTxs.PUT("/:id", ctrl.UpdateCryptoTransaction)
	cryptoTxs.DELETE("/:id", ctrl.DeleteCryptoTransaction)

	financeTxs := authed.Group("/transactions")
	financeTxs.POST("", ctrl.CreateFinanceTransaction)
	financeTxs.GET("", ctrl.ListFinanceTransactions)
	financeTxs.GET("/:id", ctrl.GetFinanceTransaction)
	financeTxs.PUT("/:id", ctrl.UpdateFinanceTransaction)
	financeTxs.DELETE("/:id", ctrl.DeleteFinanceTransaction)

	authed.GET("/coins/:symbol/pnl-series", ctrl.GetPnlSeries)
	authed.GET("/dashboard", ctrl.GetDashboard)
	authed.POST("/reports", ctrl.CreateReport)

	pricesGroup := authed.Group("/prices")
	pricesGroup.GET("", ctrl.ListPrices)
	pricesGroup.GET("/averages", ctrl.GetPriceAverages)
	if h.snapshotCh != nil {
		pricesGroup.GET("/stream", controller.SSESnapshots(h.snapshotCh))
	}

	return nil
}
