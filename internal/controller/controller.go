package controller

import (
	"planejeja/internal/models"
	"planejeja/internal/repo"
	"planejeja/internal/service"
	"planejeja/pkg/types/cache"
	"planejeja/pkg/types/prices"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the auth middleware stores the resolved user.
const ContextUserKey = "currentUser"

type Controller struct {
	repo         *repo.Repository
	snapshotSvc  *service.SnapshotService
	pnlSvc       *service.PnlService
	dashboardSvc *service.DashboardService
	reportSvc    *service.ReportService
	priceCache   cache.Cache[string, float64]
	fetcher      prices.PriceFetcher
}

type Option func(*Controller)

func WithRepository(r *repo.Repository) Option {
	return func(c *Controller) {
		c.repo = r
	}
}

func WithSnapshotService(s *service.SnapshotService) Option {
	return func(c *Controller) {
		c.snapshotSvc = s
	}
}

func WithPnlService(s *service.PnlService) Option {
	return func(c *Controller) {
		c.pnlSvc = s
	}
}

func WithDashboardService(s *service.DashboardService) Option {
	return func(c *Controller) {
		c.dashboardSvc = s
	}
}

func WithReportService(s *service.ReportService) Option {
	return func(c *Controller) {
		c.reportSvc = s
	}
}

func WithPriceCache(pc cache.Cache[string, float64]) Option {
	return func(c *Controller) {
		c.priceCache = pc
	}
}

func WithPriceFetcher(f prices.PriceFetcher) Option {
	return func(c *Controller) {
		c.fetcher = f
	}
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if c.repo == nil {
		return nil, ErrNilRepository
	}
	return c, nil
}

// currentUser returns the authenticated user placed in the context by the
// auth middleware.
func currentUser(ctx *gin.Context) (*models.User, bool) {
	value, exists := ctx.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
