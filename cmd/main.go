package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"planejeja/internal/handler"
	"planejeja/internal/repo"
	"planejeja/internal/service"
	"planejeja/pkg/database"
	"planejeja/pkg/integrations/chanpubsub"
	"planejeja/pkg/integrations/memcache"
	"planejeja/pkg/integrations/prices/binanceprices"
	"planejeja/pkg/utils"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"
)

func main() {
	utils.LoadEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPath := utils.GetEnv("DB_PATH", "./data/planejeja.db")
	db, err := database.New(database.WithPath(dbPath))
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	repository, err := repo.New(db.Get())
	if err != nil {
		log.Fatal("Failed to create repository:", err)
	}
	if err := repository.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	priceFetcher := binanceprices.NewPriceFetcher()
	priceCache := memcache.New[string, float64]()

	snapshotCh := make(chan []byte, 10)
	sseCh := make(chan []byte, 10)
	snapshotPublisher := chanpubsub.New(
		chanpubsub.WithContext(ctx),
		chanpubsub.WithLogger(logger),
		chanpubsub.WithTopic("snapshots"),
		chanpubsub.WithChannel(snapshotCh),
		chanpubsub.WithHandler(func(data []byte) error {
			var written map[string]float64
			if err := json.Unmarshal(data, &written); err == nil {
				for symbol, price := range written {
					priceCache.Set(symbol, price)
				}
			}
			select {
			case sseCh <- data:
			default:
				logger.Warn("sse channel full, dropping snapshot payload")
			}
			return nil
		}),
	)
	if err := snapshotPublisher.Subscribe(); err != nil {
		log.Fatal("Failed to start snapshot subscriber:", err)
	}

	snapshotSvc, err := service.NewSnapshotService(
		service.WithSnapshotContext(ctx),
		service.WithSnapshotLogger(logger),
		service.WithSnapshotFetcher(priceFetcher),
		service.WithSnapshotStore(repository),
		service.WithSnapshotPublisher(snapshotPublisher),
	)
	if err != nil {
		log.Fatal("Failed to create snapshot service:", err)
	}

	pnlSvc, err := service.NewPnlService(
		service.WithPnlLogger(logger),
		service.WithPnlSnapshots(repository),
		service.WithPnlOperations(repository),
	)
	if err != nil {
		log.Fatal("Failed to create pnl service:", err)
	}

	dashboardSvc, err := service.NewDashboardService(
		service.WithDashboardLogger(logger),
		service.WithDashboardFinance(repository),
	)
	if err != nil {
		log.Fatal("Failed to create dashboard service:", err)
	}

	reportOpts := []service.ReportOption{
		service.WithReportLogger(logger),
		service.WithReportFinance(repository),
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			log.Fatal("Failed to create genai client:", err)
		}
		reportOpts = append(reportOpts, service.WithReportClient(client))
	} else {
		logger.Warn("GEMINI_API_KEY not set, reports fall back to the static template")
	}
	reportSvc, err := service.NewReportService(reportOpts...)
	if err != nil {
		log.Fatal("Failed to create report service:", err)
	}

	if err := snapshotSvc.Start(); err != nil {
		log.Fatal("Failed to start snapshot service:", err)
	}

	r := gin.Default()

	h, err := handler.New(
		handler.WithEngine(r),
		handler.WithRepository(repository),
		handler.WithSnapshotChannel(sseCh),
		handler.WithPriceCache(priceCache),
		handler.WithPriceFetcher(priceFetcher),
		handler.WithSnapshotService(snapshotSvc),
		handler.WithPnlService(pnlSvc),
		handler.WithDashboardService(dashboardSvc),
		handler.WithReportService(reportSvc),
		handler.WithRateLimiter(handler.NewRateLimiter()),
	)
	if err != nil {
		log.Fatal("Failed to create handler:", err)
	}
	if err := h.Setup(); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
		snapshotSvc.Stop()
		os.Exit(0)
	}()

	logger.Info("starting PlanejeJa", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
