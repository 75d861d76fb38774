package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
)

// PortfolioStats resume as posições de um investidor. Valores monetários são
// decimais para que UnrealizedGains == TotalValue - TotalInvested seja exato.
type PortfolioStats struct {
	TotalValue        decimal.Decimal `json:"total_value"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	UnrealizedGains   decimal.Decimal `json:"unrealized_gains"`
	MonthlyRentIncome decimal.Decimal `json:"monthly_rent_income"`
	AverageYield      decimal.Decimal `json:"average_yield"`
	PropertyCount     int             `json:"property_count"`
	TokenCount        int64           `json:"token_count"`
}

// ComputeStats agrega as posições. AverageYield é a média simples do
// rendimento anual dos imóveis, sem ponderação, e vale 0 para lista vazia.
func ComputeStats(holdings []models.TokenHolding) PortfolioStats {
	var (
		value, invested, rent, yield decimal.Decimal
		tokens                       int64
	)
	for _, h := range holdings {
		value = value.Add(decimal.NewFromFloat(h.CurrentValue))
		invested = invested.Add(decimal.NewFromFloat(h.PurchasePrice))
		rent = rent.Add(decimal.NewFromFloat(h.MonthlyRentShare))
		yield = yield.Add(decimal.NewFromFloat(h.Property.AnnualYield))
		tokens += h.TokenAmount
	}

	avg := decimal.Zero
	if n := len(holdings); n > 0 {
		avg = yield.Div(decimal.NewFromInt(int64(n)))
	}

	return PortfolioStats{
		TotalValue:        value,
		TotalInvested:     invested,
		UnrealizedGains:   value.Sub(invested),
		MonthlyRentIncome: rent,
		AverageYield:      avg,
		PropertyCount:     len(holdings),
		TokenCount:        tokens,
	}
}

// HoldingSource fornece as posições e os pagamentos de aluguel de um usuário.
type HoldingSource interface {
	Holdings(ctx context.Context, userID string) ([]models.TokenHolding, error)
	RentPayments(ctx context.Context, userID string) ([]models.RentPayment, error)
}

// SeedHoldingSource devolve sempre o mesmo portfólio simulado, trocando
// apenas o UserID pelo do usuário solicitante.
type SeedHoldingSource struct {
	holdings []models.TokenHolding
	payments []models.RentPayment
}

func NewSeedHoldingSource(holdings []models.TokenHolding, payments []models.RentPayment) *SeedHoldingSource {
	return &SeedHoldingSource{holdings: slices.Clone(holdings), payments: slices.Clone(payments)}
}

func (s *SeedHoldingSource) Holdings(_ context.Context, userID string) ([]models.TokenHolding, error) {
	out := slices.Clone(s.holdings)
	for i := range out {
		out[i].UserID = userID
	}
	return out, nil
}

func (s *SeedHoldingSource) RentPayments(_ context.Context, userID string) ([]models.RentPayment, error) {
	out := slices.Clone(s.payments)
	for i := range out {
		out[i].UserID = userID
	}
	return out, nil
}

// Portfolio é o estado completo exibido no painel do investidor.
type Portfolio struct {
	Holdings     []models.TokenHolding `json:"holdings"`
	RentPayments []models.RentPayment  `json:"rent_payments"`
	Stats        PortfolioStats        `json:"stats"`
}

// DateRange é um intervalo fechado de datas. Limites zero não restringem.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// HoldingFilters restringe a lista de posições. Campos vazios ou nil não
// filtram.
type HoldingFilters struct {
	PropertyID string
	YieldRange *Range
	ValueRange *Range
	DateRange  *DateRange
}

// FilterHoldings aplica os filtros mantendo a ordem original.
func FilterHoldings(holdings []models.TokenHolding, f HoldingFilters) []models.TokenHolding {
	out := make([]models.TokenHolding, 0, len(holdings))
	for _, h := range holdings {
		if f.PropertyID != "" && h.PropertyID != f.PropertyID {
			continue
		}
		if f.YieldRange != nil && !f.YieldRange.Contains(h.Property.AnnualYield) {
			continue
		}
		if f.ValueRange != nil && !f.ValueRange.Contains(h.CurrentValue) {
			continue
		}
		if f.DateRange != nil && !f.DateRange.Contains(h.PurchaseDate) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// ExportFormat é o formato do relatório de portfólio.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// PortfolioService carrega o portfólio simulado do usuário.
type PortfolioService struct {
	source  HoldingSource
	latency time.Duration
	logger  *zap.Logger
}

// NewPortfolioService cria o serviço. latency imita o tempo de resposta da API.
func NewPortfolioService(source HoldingSource, latency time.Duration, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{source: source, latency: latency, logger: logger}
}

// Load devolve as posições, os pagamentos e as estatísticas do usuário.
func (s *PortfolioService) Load(ctx context.Context, userID string) (Portfolio, error) {
	if userID == "" {
		return Portfolio{}, ErrNotAuthenticated
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return Portfolio{}, err
	}

	holdings, err := s.source.Holdings(ctx, userID)
	if err != nil {
		return Portfolio{}, fmt.Errorf("falha ao carregar posições: %w", err)
	}
	payments, err := s.source.RentPayments(ctx, userID)
	if err != nil {
		return Portfolio{}, fmt.Errorf("falha ao carregar pagamentos de aluguel: %w", err)
	}

	s.logger.Debug("portfólio carregado", zap.String("user_id", userID), zap.Int("holdings", len(holdings)))
	return Portfolio{Holdings: holdings, RentPayments: payments, Stats: ComputeStats(holdings)}, nil
}

// Refresh recarrega o portfólio da origem.
func (s *PortfolioService) Refresh(ctx context.Context, userID string) (Portfolio, error) {
	return s.Load(ctx, userID)
}

var csvHeader = []string{
	"id", "property_id", "property_title", "city", "token_amount",
	"purchase_price", "current_value", "monthly_rent_share", "annual_yield",
	"purchase_date", "partition",
}

// Export escreve as posições do usuário em w no formato pedido.
func (s *PortfolioService) Export(ctx context.Context, userID string, format ExportFormat, w io.Writer) error {
	if format != ExportCSV {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	p, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("falha ao escrever relatório: %w", err)
	}
	for _, h := range p.Holdings {
		record := []string{
			h.ID,
			h.PropertyID,
			h.Property.Title,
			h.Property.City,
			strconv.FormatInt(h.TokenAmount, 10),
			decimal.NewFromFloat(h.PurchasePrice).StringFixed(2),
			decimal.NewFromFloat(h.CurrentValue).StringFixed(2),
			decimal.NewFromFloat(h.MonthlyRentShare).StringFixed(2),
			decimal.NewFromFloat(h.Property.AnnualYield).String(),
			h.PurchaseDate.Format(time.DateOnly),
			h.Partition,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("falha ao escrever relatório: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("falha ao escrever relatório: %w", err)
	}
	return nil
}
