package service

import (
	"testing"

	"planejeja/internal/models"
	"planejeja/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinanceAggregator struct {
	types      []repo.TypeSum
	categories []repo.CategorySum
	recent     []models.FinanceTransaction
	lastFilter repo.FinanceFilter
	lastLimit  int
}

func (f *fakeFinanceAggregator) SumFinanceByType(filter repo.FinanceFilter) ([]repo.TypeSum, error) {
	f.lastFilter = filter
	return f.types, nil
}

func (f *fakeFinanceAggregator) SumExpensesByCategory(filter repo.FinanceFilter) ([]repo.CategorySum, error) {
	return f.categories, nil
}

func (f *fakeFinanceAggregator) LastFinanceTransactions(filter repo.FinanceFilter, limit int) ([]models.FinanceTransaction, error) {
	f.lastLimit = limit
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func newTestDashboardService(t *testing.T, finance FinanceAggregator) *DashboardService {
	t.Helper()
	svc, err := NewDashboardService(
		WithDashboardLogger(discardLogger),
		WithDashboardFinance(finance),
	)
	require.NoError(t, err)
	return svc
}

func TestDashboardTotals_BalanceAndPercentages(t *testing.T) {
	finance := &fakeFinanceAggregator{
		types: []repo.TypeSum{
			{Type: models.FinanceTypeDeposit, Total: 10100},
			{Type: models.FinanceTypeExpense, Total: 19497.56},
			{Type: models.FinanceTypeInvestment, Total: 14141.47},
		},
		categories: []repo.CategorySum{
			{Category: "FOOD", Total: 853.76},
			{Category: "TRANSPORTATION", Total: 144.05},
		},
	}

	svc := newTestDashboardService(t, finance)

	totals, err := svc.Totals("user-1", PeriodTotal, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 10100.0, totals.DepositsTotal)
	assert.Equal(t, 19497.56, totals.ExpensesTotal)
	assert.Equal(t, 14141.47, totals.InvestmentsTotal)
	assert.InDelta(t, 10100-19497.56-14141.47, totals.Balance, 1e-9)

	var pctSum float64
	for _, pct := range totals.TypesPercentage {
		pctSum += pct
	}
	assert.InDelta(t, 100.0, pctSum, 1e-9)

	require.Len(t, totals.ExpensesPerCategory, 2)
	assert.Equal(t, "FOOD", totals.ExpensesPerCategory[0].Category)
	assert.Greater(t, totals.ExpensesPerCategory[0].Percent, 0.0)
}

func TestDashboardTotals_CategoryPercentsAreWhole(t *testing.T) {
	finance := &fakeFinanceAggregator{
		types: []repo.TypeSum{
			{Type: models.FinanceTypeExpense, Total: 300},
		},
		categories: []repo.CategorySum{
			{Category: "FOOD", Total: 200},
			{Category: "TRANSPORTATION", Total: 100},
		},
	}

	svc := newTestDashboardService(t, finance)

	totals, err := svc.Totals("user-1", PeriodTotal, 0, 0)
	require.NoError(t, err)

	// 200/300 is 66.67%, reported as the rounded whole 67
	require.Len(t, totals.ExpensesPerCategory, 2)
	assert.Equal(t, 67.0, totals.ExpensesPerCategory[0].Percent)
	assert.Equal(t, 33.0, totals.ExpensesPerCategory[1].Percent)
}

func TestDashboardTotals_LastTransactions(t *testing.T) {
	recent := make([]models.FinanceTransaction, 12)
	for i := range recent {
		recent[i] = models.FinanceTransaction{ID: "tx", Type: models.FinanceTypeDeposit, Amount: "1"}
	}
	finance := &fakeFinanceAggregator{recent: recent}

	svc := newTestDashboardService(t, finance)

	totals, err := svc.Totals("user-1", PeriodTotal, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, finance.lastLimit)
	assert.Len(t, totals.LastTransactions, 10)

	finance.recent = nil
	empty, err := svc.Totals("user-2", PeriodTotal, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty.LastTransactions)
	assert.Empty(t, empty.LastTransactions)
}

func TestDashboardTotals_MonthlyWindow(t *testing.T) {
	finance := &fakeFinanceAggregator{}
	svc := newTestDashboardService(t, finance)

	_, err := svc.Totals("user-1", PeriodMonthly, 6, 2025)
	require.NoError(t, err)

	require.NotNil(t, finance.lastFilter.Start)
	require.NotNil(t, finance.lastFilter.End)
	assert.Equal(t, "2025-06-01", finance.lastFilter.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-07-01", finance.lastFilter.End.Format("2006-01-02"))
}

func TestDashboardTotals_YearlyWindow(t *testing.T) {
	finance := &fakeFinanceAggregator{}
	svc := newTestDashboardService(t, finance)

	_, err := svc.Totals("user-1", PeriodYearly, 0, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", finance.lastFilter.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-01", finance.lastFilter.End.Format("2006-01-02"))
}

func TestDashboardTotals_InvalidPeriods(t *testing.T) {
	svc := newTestDashboardService(t, &fakeFinanceAggregator{})

	tests := []struct {
		name   string
		period string
		month  int
		year   int
	}{
		{"unknown option", "weekly", 0, 0},
		{"month out of range", PeriodMonthly, 13, 2025},
		{"missing year", PeriodMonthly, 6, 0},
		{"yearly missing year", PeriodYearly, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Totals("user-1", tt.period, tt.month, tt.year)
			assert.ErrorIs(t, err, ErrInvalidPeriod)
		})
	}
}

func TestDashboardTotals_EmptyData(t *testing.T) {
	svc := newTestDashboardService(t, &fakeFinanceAggregator{})

	totals, err := svc.Totals("user-1", PeriodTotal, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, totals.Balance)
	assert.Zero(t, totals.TypesPercentage[models.FinanceTypeDeposit])
	assert.Empty(t, totals.ExpensesPerCategory)
}
