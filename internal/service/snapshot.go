package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"planejeja/internal/models"
	tickerScheduler "planejeja/pkg/integrations/scheduler"
	"planejeja/pkg/pairs"
	"planejeja/pkg/types/prices"
	"planejeja/pkg/types/pubsub"
	"planejeja/pkg/types/scheduler"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSnapshotConfig = errors.New("invalid snapshot service config")

	// ErrUpstreamFetch marks collection failures caused by the price
	// provider, as opposed to storage failures.
	ErrUpstreamFetch = errors.New("failed to fetch upstream prices")
)

// RetentionWindow bounds snapshot storage growth; rows older than this are
// pruned on every collection run.
const RetentionWindow = 30 * 24 * time.Hour

// Collector run outcomes, kept verbatim from the public API contract.
const (
	MsgNoOpenTokens   = "Nenhum token para registrar"
	MsgNoSnapshots    = "Nenhum snapshot gerado"
	MsgSnapshotsSaved = "Snapshots por minuto salvos com sucesso"
)

// SnapshotStore is the narrow persistence contract of the collector.
type SnapshotStore interface {
	DistinctBuyTokens() ([]string, error)
	ReplaceSnapshot(snap *models.PriceSnapshot) error
	DeleteSnapshotsBefore(cutoff time.Time) (int64, error)
}

// CollectResult reports one collection run. On a run that wrote snapshots
// both counts are part of the body, a zero prune count included; the neutral
// outcomes carry only the message.
type CollectResult struct {
	Message    string `json:"message"`
	Snapshots  int    `json:"snapshots"`
	DeletedOld int64  `json:"deletedOld"`
}

// SnapshotService captures one minute-bucketed price snapshot per tracked
// asset. Only assets with at least one recorded buy, for any user, are
// tracked. Runs are idempotent per (symbol, minute): re-collection within
// the same minute overwrites the earlier row.
type SnapshotService struct {
	ctx       context.Context
	logger    *slog.Logger
	fetcher   prices.PriceFetcher
	store     SnapshotStore
	publisher pubsub.Publisher
	scheduler scheduler.Scheduler
	interval  time.Duration
	now       func() time.Time
}

type SnapshotOption func(*SnapshotService)

func WithSnapshotContext(ctx context.Context) SnapshotOption {
	return func(s *SnapshotService) {
		s.ctx = ctx
	}
}

func WithSnapshotLogger(l *slog.Logger) SnapshotOption {
	return func(s *SnapshotService) {
		s.logger = l
	}
}

func WithSnapshotFetcher(f prices.PriceFetcher) SnapshotOption {
	return func(s *SnapshotService) {
		s.fetcher = f
	}
}

func WithSnapshotStore(store SnapshotStore) SnapshotOption {
	return func(s *SnapshotService) {
		s.store = store
	}
}

func WithSnapshotPublisher(p pubsub.Publisher) SnapshotOption {
	return func(s *SnapshotService) {
		s.publisher = p
	}
}

func WithSnapshotInterval(d time.Duration) SnapshotOption {
	return func(s *SnapshotService) {
		s.interval = d
	}
}

func WithSnapshotClock(now func() time.Time) SnapshotOption {
	return func(s *SnapshotService) {
		s.now = now
	}
}

func (s *SnapshotService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidSnapshotConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidSnapshotConfig, "logger cannot be nil")
	case s.fetcher == nil:
		return errors.Wrap(ErrInvalidSnapshotConfig, "fetcher cannot be nil")
	case s.store == nil:
		return errors.Wrap(ErrInvalidSnapshotConfig, "store cannot be nil")
	default:
		return nil
	}
}

func NewSnapshotService(opts ...SnapshotOption) (*SnapshotService, error) {
	s := &SnapshotService{
		interval: scheduler.IntervalMinute,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	sched, err := tickerScheduler.New(
		tickerScheduler.WithContext(s.ctx),
		tickerScheduler.WithLogger(s.logger),
		tickerScheduler.WithInterval(s.interval),
		tickerScheduler.WithHandler(s.tick),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.scheduler = sched

	return s, nil
}

func (s *SnapshotService) Start() error {
	if err := s.tick(); err != nil {
		s.logger.Error("initial snapshot collection failed", "error", err)
	}

	return s.scheduler.Start()
}

func (s *SnapshotService) Stop() {
	s.scheduler.Stop()
}

func (s *SnapshotService) tick() error {
	_, err := s.CollectOnce()
	return err
}

// CollectOnce performs one collection run: resolve the open-position symbol
// set, fetch the full ticker book, upsert one snapshot per tracked symbol
// for the current minute and finally prune rows past the retention window.
// The prune runs after all upserts so a just-written row can never be caught
// by it. Empty symbol sets and all-skipped tickers are reported as neutral
// results, not errors.
func (s *SnapshotService) CollectOnce() (*CollectResult, error) {
	tokens, err := s.store.DistinctBuyTokens()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve open tokens")
	}
	if len(tokens) == 0 {
		s.logger.Info("no tokens with recorded buys, nothing to snapshot")
		return &CollectResult{Message: MsgNoOpenTokens}, nil
	}

	tracked := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		tracked[token] = struct{}{}
	}

	entries, err := s.fetcher.FetchAllPairs()
	if err != nil {
		return nil, errors.Wrapf(ErrUpstreamFetch, "ticker prices: %v", err)
	}

	currentMinute := s.now().UTC().Truncate(time.Minute)
	written := make(map[string]float64, len(tracked))

	for _, entry := range entries {
		base, ok := pairs.BaseFromUSDT(entry.Symbol)
		if !ok {
			continue
		}
		if _, wanted := tracked[base]; !wanted {
			continue
		}

		price := pairs.ParsePrice(entry.Price)
		if price == 0 {
			s.logger.Warn("skipping malformed ticker price", "pair", entry.Symbol, "raw", entry.Price)
			continue
		}

		if err := s.store.ReplaceSnapshot(&models.PriceSnapshot{
			Symbol:     base,
			PriceUSD:   price,
			CapturedAt: currentMinute,
		}); err != nil {
			return nil, errors.Wrapf(err, "failed to store snapshot for %s", base)
		}
		written[base] = price
	}

	if len(written) == 0 {
		s.logger.Info("no snapshots generated this minute", "tracked", len(tracked))
		return &CollectResult{Message: MsgNoSnapshots}, nil
	}

	deleted, err := s.store.DeleteSnapshotsBefore(s.now().Add(-RetentionWindow))
	if err != nil {
		return nil, errors.Wrap(err, "failed to prune old snapshots")
	}

	s.publish(written)

	s.logger.Info("snapshots saved",
		"minute", currentMinute, "count", len(written), "pruned", deleted)

	return &CollectResult{
		Message:    MsgSnapshotsSaved,
		Snapshots:  len(written),
		DeletedOld: deleted,
	}, nil
}

func (s *SnapshotService) publish(written map[string]float64) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(written)
	if err != nil {
		s.logger.Error("failed to marshal snapshot payload", "error", err)
		return
	}
	if err := s.publisher.Publish(data); err != nil {
		s.logger.Warn("failed to publish snapshot payload", "error", err)
	}
}
