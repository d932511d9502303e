package service

import (
	"testing"
	"time"

	"planejeja/internal/models"
	"planejeja/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotReader struct {
	snapshots []models.PriceSnapshot
	err       error
}

func (f *fakeSnapshotReader) GetSnapshotsSince(symbol string, since time.Time) ([]models.PriceSnapshot, error) {
	return f.snapshots, f.err
}

type fakeOperationReader struct {
	transactions []models.CryptoTransaction
	lastFilter   repo.CryptoTransactionFilter
	err          error
}

func (f *fakeOperationReader) FilterCryptoTransactions(filter repo.CryptoTransactionFilter) ([]models.CryptoTransaction, error) {
	f.lastFilter = filter
	return f.transactions, f.err
}

func snapshotsAt(base time.Time, prices ...float64) []models.PriceSnapshot {
	snapshots := make([]models.PriceSnapshot, 0, len(prices))
	for i, price := range prices {
		snapshots = append(snapshots, models.PriceSnapshot{
			Symbol:     "BTC",
			PriceUSD:   price,
			CapturedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return snapshots
}

func newTestPnlService(t *testing.T, snapshots SnapshotReader, operations OperationReader) *PnlService {
	t.Helper()
	svc, err := NewPnlService(
		WithPnlLogger(discardLogger),
		WithPnlSnapshots(snapshots),
		WithPnlOperations(operations),
	)
	require.NoError(t, err)
	return svc
}

func TestPnlService_InvalidConfig(t *testing.T) {
	_, err := NewPnlService(WithPnlLogger(discardLogger))
	assert.ErrorIs(t, err, ErrInvalidPnlConfig)
}

// One buy of 2 units for $100 total; snapshots at 60/40/70 must yield
// profits 20/-20/40 and deltas 0/-40/60.
func TestBuildSeries_SingleBuyScenario(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshotReader{snapshots: snapshotsAt(base, 60, 40, 70)}
	operations := &fakeOperationReader{transactions: []models.CryptoTransaction{
		{ID: "op-1", Type: models.CryptoTypeBuy, Amount: "2", USDValue: "100", Price: "50"},
	}}

	svc := newTestPnlService(t, snapshots, operations)

	series, err := svc.BuildSeries("user-1", "btc", 24, "")
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, []float64{20, -20, 40}, []float64{series[0].Profit, series[1].Profit, series[2].Profit})
	assert.Equal(t, []float64{0, -40, 60}, []float64{series[0].Delta, series[1].Delta, series[2].Delta})
	assert.Equal(t, 60.0, series[0].Price)
	assert.Equal(t, base, series[0].Time)
	// symbol was normalized before querying
	assert.Equal(t, "BTC", operations.lastFilter.Token)
}

func TestBuildSeries_SellExcluded(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshotReader{snapshots: snapshotsAt(base, 60, 40, 70)}
	operations := &fakeOperationReader{transactions: []models.CryptoTransaction{
		{ID: "op-1", Type: models.CryptoTypeBuy, Amount: "2", USDValue: "100"},
		{ID: "op-2", Type: models.CryptoTypeSell, Amount: "1", USDValue: "50"},
	}}

	svc := newTestPnlService(t, snapshots, operations)

	series, err := svc.BuildSeries("user-1", "BTC", 24, "")
	require.NoError(t, err)
	require.Len(t, series, 3)
	// identical to the buy-only series: the sell contributes nothing
	assert.Equal(t, 20.0, series[0].Profit)
	assert.Equal(t, -20.0, series[1].Profit)
	assert.Equal(t, 40.0, series[2].Profit)
}

func TestBuildSeries_ProfitMonotonicInPrice(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshotReader{snapshots: snapshotsAt(base, 30, 50, 80, 110)}
	operations := &fakeOperationReader{transactions: []models.CryptoTransaction{
		{ID: "op-1", Type: models.CryptoTypeBuy, Amount: "3", USDValue: "150"},
	}}

	svc := newTestPnlService(t, snapshots, operations)

	series, err := svc.BuildSeries("user-1", "BTC", 24, "")
	require.NoError(t, err)
	require.Len(t, series, 4)
	for i := 1; i < len(series); i++ {
		assert.Greater(t, series[i].Profit, series[i-1].Profit)
		assert.Equal(t, series[i].Profit-series[i-1].Profit, series[i].Delta)
	}
	assert.Zero(t, series[0].Delta)
}

func TestBuildSeries_EmptyInputs(t *testing.T) {
	tests := []struct {
		name         string
		snapshots    []models.PriceSnapshot
		transactions []models.CryptoTransaction
	}{
		{"no snapshots", nil, []models.CryptoTransaction{
			{Type: models.CryptoTypeBuy, Amount: "1", USDValue: "10"},
		}},
		{"no transactions", snapshotsAt(time.Now(), 10), nil},
		{"neither", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestPnlService(t,
				&fakeSnapshotReader{snapshots: tt.snapshots},
				&fakeOperationReader{transactions: tt.transactions},
			)
			series, err := svc.BuildSeries("user-1", "BTC", 24, "")
			require.NoError(t, err)
			assert.NotNil(t, series)
			assert.Empty(t, series)
		})
	}
}

func TestBuildSeries_EmptySymbol(t *testing.T) {
	svc := newTestPnlService(t, &fakeSnapshotReader{}, &fakeOperationReader{})
	series, err := svc.BuildSeries("user-1", "  ", 24, "")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestBuildSeries_MalformedValuesCoercedToZero(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshotReader{snapshots: snapshotsAt(base, 60)}
	operations := &fakeOperationReader{transactions: []models.CryptoTransaction{
		{ID: "op-1", Type: models.CryptoTypeBuy, Amount: "oops", USDValue: "100"},
		{ID: "op-2", Type: models.CryptoTypeBuy, Amount: "2", USDValue: "100"},
	}}

	svc := newTestPnlService(t, snapshots, operations)

	series, err := svc.BuildSeries("user-1", "BTC", 24, "")
	require.NoError(t, err)
	require.Len(t, series, 1)
	// only the well-formed buy contributes
	assert.Equal(t, 20.0, series[0].Profit)
}

func TestBuildSeries_DefaultLookback(t *testing.T) {
	operations := &fakeOperationReader{transactions: []models.CryptoTransaction{
		{Type: models.CryptoTypeBuy, Amount: "1", USDValue: "10"},
	}}
	snapshots := &fakeSnapshotReader{snapshots: snapshotsAt(time.Now(), 20)}

	svc := newTestPnlService(t, snapshots, operations)

	// zero and negative hours fall back to the default window
	for _, hours := range []float64{0, -5} {
		series, err := svc.BuildSeries("user-1", "BTC", hours, "")
		require.NoError(t, err)
		assert.Len(t, series, 1)
	}
}

func TestBuildSeries_OperationFilterForwarded(t *testing.T) {
	operations := &fakeOperationReader{transactions: []models.CryptoTransaction{
		{ID: "op-2", Type: models.CryptoTypeBuy, Amount: "1", USDValue: "10"},
	}}
	snapshots := &fakeSnapshotReader{snapshots: snapshotsAt(time.Now(), 20)}

	svc := newTestPnlService(t, snapshots, operations)

	_, err := svc.BuildSeries("user-1", "BTC", 24, "op-2")
	require.NoError(t, err)
	assert.Equal(t, "op-2", operations.lastFilter.OperationID)
	assert.Equal(t, "user-1", operations.lastFilter.UserID)
}
