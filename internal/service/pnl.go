package service

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"planejeja/internal/models"
	"planejeja/internal/repo"
	"planejeja/pkg/money"

	"github.com/pkg/errors"
)

var ErrInvalidPnlConfig = errors.New("invalid pnl service config")

// DefaultLookbackHours is used when the caller omits or mangles the window.
const DefaultLookbackHours = 24

// PnlPoint is one charted point: the snapshot price, the aggregate
// unrealized profit across the user's open buys at that price, and the
// change versus the previous point.
type PnlPoint struct {
	Time   time.Time `json:"time"`
	Price  float64   `json:"price"`
	Profit float64   `json:"profit"`
	Delta  float64   `json:"delta"`
}

// SnapshotReader is the read-only snapshot contract of the builder.
type SnapshotReader interface {
	GetSnapshotsSince(symbol string, since time.Time) ([]models.PriceSnapshot, error)
}

// OperationReader lists a user's crypto operations for one token.
type OperationReader interface {
	FilterCryptoTransactions(filter repo.CryptoTransactionFilter) ([]models.CryptoTransaction, error)
}

type position struct {
	typ      string
	amount   float64
	invested float64
}

type PnlService struct {
	logger     *slog.Logger
	snapshots  SnapshotReader
	operations OperationReader
	now        func() time.Time
}

type PnlOption func(*PnlService)

func WithPnlLogger(l *slog.Logger) PnlOption {
	return func(s *PnlService) {
		s.logger = l
	}
}

func WithPnlSnapshots(r SnapshotReader) PnlOption {
	return func(s *PnlService) {
		s.snapshots = r
	}
}

func WithPnlOperations(r OperationReader) PnlOption {
	return func(s *PnlService) {
		s.operations = r
	}
}

func WithPnlClock(now func() time.Time) PnlOption {
	return func(s *PnlService) {
		s.now = now
	}
}

func (s *PnlService) IsValid() error {
	switch {
	case s.logger == nil:
		return errors.Wrap(ErrInvalidPnlConfig, "logger cannot be nil")
	case s.snapshots == nil:
		return errors.Wrap(ErrInvalidPnlConfig, "snapshot reader cannot be nil")
	case s.operations == nil:
		return errors.Wrap(ErrInvalidPnlConfig, "operation reader cannot be nil")
	default:
		return nil
	}
}

func NewPnlService(opts ...PnlOption) (*PnlService, error) {
	s := &PnlService{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}
	return s, nil
}

// BuildSeries returns the chronologically ordered unrealized-PnL series for
// the user's position in symbol over the lookback window. Missing snapshots
// or transactions produce an empty series, never an error: "no data yet" is
// a normal steady state for a fresh symbol or user.
//
// For each snapshot price P the profit is the sum of amount×P − invested
// over the user's buy rows with positive amount and invested value. Sell
// rows carry realized profit and never contribute here.
func (s *PnlService) BuildSeries(userID, symbol string, hours float64, operationID string) ([]PnlPoint, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return []PnlPoint{}, nil
	}

	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = DefaultLookbackHours
	}

	since := s.now().Add(-time.Duration(hours * float64(time.Hour)))
	snapshots, err := s.snapshots.GetSnapshotsSince(symbol, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load snapshots")
	}
	if len(snapshots) == 0 {
		return []PnlPoint{}, nil
	}

	transactions, err := s.operations.FilterCryptoTransactions(repo.CryptoTransactionFilter{
		UserID:      userID,
		Token:       symbol,
		OperationID: operationID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load transactions")
	}
	if len(transactions) == 0 {
		return []PnlPoint{}, nil
	}

	positions := s.normalize(symbol, transactions)

	series := make([]PnlPoint, 0, len(snapshots))
	for _, snap := range snapshots {
		var profit float64
		for _, p := range positions {
			if p.typ == models.CryptoTypeBuy && p.amount > 0 && p.invested > 0 {
				profit += p.amount*snap.PriceUSD - p.invested
			}
		}
		series = append(series, PnlPoint{
			Time:   snap.CapturedAt,
			Price:  snap.PriceUSD,
			Profit: profit,
		})
	}

	for i := 1; i < len(series); i++ {
		series[i].Delta = series[i].Profit - series[i-1].Profit
	}

	return series, nil
}

// normalize crosses the string-decimal boundary once, before aggregation.
// Malformed values fall back to 0 and are logged rather than poisoning sums.
func (s *PnlService) normalize(symbol string, transactions []models.CryptoTransaction) []position {
	positions := make([]position, 0, len(transactions))
	for _, tx := range transactions {
		amount, amountOK := money.ParseStrict(tx.Amount)
		invested, investedOK := money.ParseStrict(tx.USDValue)
		if !amountOK || !investedOK {
			s.logger.Warn("coercing malformed transaction values",
				"transaction", tx.ID, "symbol", symbol,
				"amount", tx.Amount, "usd_value", tx.USDValue)
		}
		positions = append(positions, position{
			typ:      tx.Type,
			amount:   amount,
			invested: invested,
		})
	}
	return positions
}
