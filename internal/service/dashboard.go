package service

import (
	"log/slog"
	"math"
	"time"

	"planejeja/internal/models"
	"planejeja/internal/repo"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDashboardConfig = errors.New("invalid dashboard service config")
	ErrInvalidPeriod          = errors.New("invalid dashboard period")
)

// Dashboard period options.
const (
	PeriodMonthly = "mensal"
	PeriodYearly  = "anual"
	PeriodTotal   = "geral"
)

// CategoryShare is one expense category with its share of total expenses.
type CategoryShare struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Percent  float64 `json:"percent"`
}

// lastTransactionsLimit caps the recent-activity list in the dashboard DTO.
const lastTransactionsLimit = 10

// DashboardTotals is the consolidated dashboard DTO: totals per type,
// balance, per-type percentages, per-category expense breakdown and the
// most recent transactions of the period.
type DashboardTotals struct {
	DepositsTotal       float64                     `json:"depositsTotal"`
	ExpensesTotal       float64                     `json:"expensesTotal"`
	InvestmentsTotal    float64                     `json:"investmentsTotal"`
	Balance             float64                     `json:"balance"`
	TypesPercentage     map[string]float64          `json:"typesPercentage"`
	ExpensesPerCategory []CategoryShare             `json:"expensesPerCategory"`
	LastTransactions    []models.FinanceTransaction `json:"lastTransactions"`
}

// FinanceAggregator is the narrow read contract of the dashboard.
type FinanceAggregator interface {
	SumFinanceByType(filter repo.FinanceFilter) ([]repo.TypeSum, error)
	SumExpensesByCategory(filter repo.FinanceFilter) ([]repo.CategorySum, error)
	LastFinanceTransactions(filter repo.FinanceFilter, limit int) ([]models.FinanceTransaction, error)
}

type DashboardService struct {
	logger  *slog.Logger
	finance FinanceAggregator
}

type DashboardOption func(*DashboardService)

func WithDashboardLogger(l *slog.Logger) DashboardOption {
	return func(s *DashboardService) {
		s.logger = l
	}
}

func WithDashboardFinance(f FinanceAggregator) DashboardOption {
	return func(s *DashboardService) {
		s.finance = f
	}
}

func (s *DashboardService) IsValid() error {
	switch {
	case s.logger == nil:
		return errors.Wrap(ErrInvalidDashboardConfig, "logger cannot be nil")
	case s.finance == nil:
		return errors.Wrap(ErrInvalidDashboardConfig, "finance aggregator cannot be nil")
	default:
		return nil
	}
}

func NewDashboardService(opts ...DashboardOption) (*DashboardService, error) {
	s := &DashboardService{}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}
	return s, nil
}

// Totals consolidates the user's finances for the requested period.
// Periods are half-open intervals [start, nextStart); "geral" spans
// everything.
func (s *DashboardService) Totals(userID, period string, month, year int) (*DashboardTotals, error) {
	filter := repo.FinanceFilter{UserID: userID}

	switch period {
	case PeriodMonthly:
		if month < 1 || month > 12 || year <= 0 {
			return nil, errors.Wrapf(ErrInvalidPeriod, "month=%d year=%d", month, year)
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		filter.Start, filter.End = &start, &end
	case PeriodYearly:
		if year <= 0 {
			return nil, errors.Wrapf(ErrInvalidPeriod, "year=%d", year)
		}
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		filter.Start, filter.End = &start, &end
	case PeriodTotal:
		// no date filter
	default:
		return nil, errors.Wrapf(ErrInvalidPeriod, "period=%q", period)
	}

	sums, err := s.finance.SumFinanceByType(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum transactions by type")
	}

	totals := &DashboardTotals{
		TypesPercentage:     make(map[string]float64, 3),
		ExpensesPerCategory: []CategoryShare{},
	}
	for _, sum := range sums {
		switch sum.Type {
		case models.FinanceTypeDeposit:
			totals.DepositsTotal = sum.Total
		case models.FinanceTypeExpense:
			totals.ExpensesTotal = sum.Total
		case models.FinanceTypeInvestment:
			totals.InvestmentsTotal = sum.Total
		}
	}

	totals.Balance = totals.DepositsTotal - totals.ExpensesTotal - totals.InvestmentsTotal

	volume := totals.DepositsTotal + totals.ExpensesTotal + totals.InvestmentsTotal
	depositPct := percent(totals.DepositsTotal, volume)
	expensePct := percent(totals.ExpensesTotal, volume)
	investmentPct := percent(totals.InvestmentsTotal, volume)

	// close the rounding gap on the investment share so the three always
	// sum to exactly 100
	if volume > 0 {
		diff := round1(100 - (depositPct + expensePct + investmentPct))
		investmentPct = round1(investmentPct + diff)
	}

	totals.TypesPercentage[models.FinanceTypeDeposit] = depositPct
	totals.TypesPercentage[models.FinanceTypeExpense] = expensePct
	totals.TypesPercentage[models.FinanceTypeInvestment] = investmentPct

	categories, err := s.finance.SumExpensesByCategory(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum expenses by category")
	}
	for _, category := range categories {
		totals.ExpensesPerCategory = append(totals.ExpensesPerCategory, CategoryShare{
			Category: category.Category,
			Total:    category.Total,
			Percent:  wholePercent(category.Total, totals.ExpensesTotal),
		})
	}

	last, err := s.finance.LastFinanceTransactions(filter, lastTransactionsLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load recent transactions")
	}
	totals.LastTransactions = last
	if totals.LastTransactions == nil {
		totals.LastTransactions = []models.FinanceTransaction{}
	}

	return totals, nil
}

// percent returns part/total as a percentage with one decimal place, and 0
// for empty totals.
func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return round1(part / total * 100)
}

// wholePercent is the category-share variant, rounded to whole integers.
func wholePercent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(part / total * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
