package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/seed"
	"github.com/ferreirogomes/landledger/services"
)

// MockHoldingSource é uma implementação mock de services.HoldingSource.
type MockHoldingSource struct {
	mock.Mock
}

func (m *MockHoldingSource) Holdings(ctx context.Context, userID string) ([]models.TokenHolding, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.TokenHolding), args.Error(1)
}

func (m *MockHoldingSource) RentPayments(ctx context.Context, userID string) ([]models.RentPayment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.RentPayment), args.Error(1)
}

func seedPortfolio(t *testing.T) *services.PortfolioService {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)
	src := services.NewSeedHoldingSource(data.Holdings, data.RentPayments)
	return services.NewPortfolioService(src, 0, zap.NewNop())
}

func TestComputeStats_SeedHoldings(t *testing.T) {
	data, err := seed.Load()
	require.NoError(t, err)

	s := services.ComputeStats(data.Holdings)
	assert.True(t, s.TotalValue.Equal(decimal.NewFromInt(10650)))
	assert.True(t, s.TotalInvested.Equal(decimal.NewFromInt(10000)))
	assert.True(t, s.UnrealizedGains.Equal(decimal.NewFromInt(650)))
	assert.True(t, s.MonthlyRentIncome.Equal(decimal.NewFromInt(525)))
	assert.Equal(t, "7.85", s.AverageYield.String())
	assert.Equal(t, 2, s.PropertyCount)
	assert.EqualValues(t, 70, s.TokenCount)
}

func TestComputeStats_GainsIdentityIsExact(t *testing.T) {
	holdings := []models.TokenHolding{
		{CurrentValue: 0.1, PurchasePrice: 0.3, Property: models.Property{AnnualYield: 7}},
		{CurrentValue: 0.2, PurchasePrice: 0.0, Property: models.Property{AnnualYield: 8}},
	}
	s := services.ComputeStats(holdings)
	assert.True(t, s.UnrealizedGains.Equal(s.TotalValue.Sub(s.TotalInvested)))
	assert.True(t, s.UnrealizedGains.IsZero(), "0.1 + 0.2 - 0.3 deve ser exatamente zero")
	assert.Equal(t, "7.5", s.AverageYield.String())
}

func TestComputeStats_Empty(t *testing.T) {
	s := services.ComputeStats(nil)
	assert.True(t, s.AverageYield.IsZero())
	assert.True(t, s.TotalValue.IsZero())
	assert.Zero(t, s.PropertyCount)
	assert.Zero(t, s.TokenCount)
}

func TestPortfolioLoad_SubstitutesUserID(t *testing.T) {
	svc := seedPortfolio(t)

	p, err := svc.Load(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, p.Holdings, 2)
	for _, h := range p.Holdings {
		assert.Equal(t, "42", h.UserID)
	}
	for _, r := range p.RentPayments {
		assert.Equal(t, "42", r.UserID)
	}
	assert.Equal(t, 2, p.Stats.PropertyCount)

	_, err = svc.Load(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestPortfolioLoad_SourceError(t *testing.T) {
	src := new(MockHoldingSource)
	boom := errors.New("conexão recusada")
	src.On("Holdings", mock.Anything, "1").Return([]models.TokenHolding(nil), boom)

	svc := services.NewPortfolioService(src, 0, zap.NewNop())
	_, err := svc.Load(context.Background(), "1")
	assert.ErrorIs(t, err, boom)
	src.AssertExpectations(t)
}

func TestPortfolioLoad_HonoursContext(t *testing.T) {
	data, err := seed.Load()
	require.NoError(t, err)
	svc := services.NewPortfolioService(services.NewSeedHoldingSource(data.Holdings, nil), time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Load(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilterHoldings(t *testing.T) {
	data, err := seed.Load()
	require.NoError(t, err)
	all := data.Holdings

	assert.Len(t, services.FilterHoldings(all, services.HoldingFilters{}), 2)

	got := services.FilterHoldings(all, services.HoldingFilters{PropertyID: "prop2"})
	require.Len(t, got, 1)
	assert.Equal(t, "prop2", got[0].PropertyID)

	got = services.FilterHoldings(all, services.HoldingFilters{YieldRange: &services.Range{Min: 8.5, Max: 15}})
	require.Len(t, got, 1)
	assert.Equal(t, "prop1", got[0].PropertyID)

	got = services.FilterHoldings(all, services.HoldingFilters{ValueRange: &services.Range{Min: 5250, Max: 5400}})
	assert.Len(t, got, 2)

	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got = services.FilterHoldings(all, services.HoldingFilters{DateRange: &services.DateRange{From: feb}})
	require.Len(t, got, 1)
	assert.Equal(t, "prop2", got[0].PropertyID)
}

func TestExport(t *testing.T) {
	svc := seedPortfolio(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), "1", services.ExportCSV, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "property_id", records[0][1])
	assert.Equal(t, []string{"1", "prop1"}, records[1][:2])
	assert.Equal(t, "5250.00", records[1][6])
	assert.Equal(t, "2024-01-15", records[1][9])

	err = svc.Export(context.Background(), "1", services.ExportPDF, &buf)
	assert.ErrorIs(t, err, services.ErrUnsupportedFormat)
}
