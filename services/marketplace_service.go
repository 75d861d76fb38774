package services

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
)

// Range é um intervalo fechado [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains informa se v está dentro do intervalo, incluindo as bordas.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// SortKey define a ordenação dos resultados de busca.
type SortKey string

const (
	SortByPrice   SortKey = "price"   // menor preço do token primeiro
	SortByYield   SortKey = "yield"   // maior rendimento primeiro
	SortByCreated SortKey = "created" // mais recentes primeiro
)

// AllCities é o valor de cidade que desativa o filtro.
const AllCities = "all"

// SearchParams são os filtros da página do marketplace.
type SearchParams struct {
	Query      string
	City       string
	PriceRange Range
	YieldRange Range
	SortBy     SortKey
}

// DefaultSearchParams devolve os filtros iniciais da tela do marketplace.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		City:       AllCities,
		PriceRange: Range{Min: 0, Max: 1000},
		YieldRange: Range{Min: 0, Max: 15},
		SortBy:     SortByYield,
	}
}

// PurchaseQuote é o resumo de uma compra exibido antes do checkout em escrow.
type PurchaseQuote struct {
	PropertyID          string          `json:"property_id"`
	TokenAmount         int64           `json:"token_amount"`
	TokenPrice          float64         `json:"token_price"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalCostDisplay    string          `json:"total_cost_display"`
	RemainingTokens     int64           `json:"remaining_tokens"`
	ProgressPercent     float64         `json:"progress_percent"`
	AvailablePercent    int64           `json:"available_percent"`
	MonthlyRentPerToken decimal.Decimal `json:"monthly_rent_per_token"`
	RestrictionLevel    string          `json:"restriction_level"`
}

// MarketplaceService filtra e ordena o catálogo estático de imóveis.
type MarketplaceService struct {
	properties []models.Property
	byID       map[string]int
	logger     *zap.Logger
}

// NewMarketplaceService cria o serviço sobre uma cópia do catálogo.
func NewMarketplaceService(properties []models.Property, logger *zap.Logger) *MarketplaceService {
	s := &MarketplaceService{
		properties: slices.Clone(properties),
		byID:       make(map[string]int, len(properties)),
		logger:     logger,
	}
	for i, p := range s.properties {
		s.byID[p.ID] = i
	}
	return s
}

// Search devolve os imóveis que passam em todos os filtros, ordenados por
// p.SortBy. Chaves de ordenação desconhecidas mantêm a ordem do catálogo.
func (s *MarketplaceService) Search(p SearchParams) []models.Property {
	query := strings.ToLower(p.Query)
	out := make([]models.Property, 0, len(s.properties))
	for _, prop := range s.properties {
		if query != "" &&
			!strings.Contains(strings.ToLower(prop.Title), query) &&
			!strings.Contains(strings.ToLower(prop.City), query) {
			continue
		}
		if p.City != "" && p.City != AllCities && prop.City != p.City {
			continue
		}
		if !p.PriceRange.Contains(prop.TokenPrice) || !p.YieldRange.Contains(prop.AnnualYield) {
			continue
		}
		out = append(out, prop)
	}

	switch p.SortBy {
	case SortByPrice:
		slices.SortStableFunc(out, func(a, b models.Property) int { return cmp.Compare(a.TokenPrice, b.TokenPrice) })
	case SortByYield:
		slices.SortStableFunc(out, func(a, b models.Property) int { return cmp.Compare(b.AnnualYield, a.AnnualYield) })
	case SortByCreated:
		slices.SortStableFunc(out, func(a, b models.Property) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}

	s.logger.Debug("busca no marketplace",
		zap.String("query", p.Query),
		zap.String("city", p.City),
		zap.String("sort", string(p.SortBy)),
		zap.Int("results", len(out)),
	)
	return out
}

// Cities devolve "all" seguido das cidades distintas, na ordem do catálogo.
func (s *MarketplaceService) Cities() []string {
	cities := []string{AllCities}
	seen := make(map[string]bool)
	for _, p := range s.properties {
		if !seen[p.City] {
			seen[p.City] = true
			cities = append(cities, p.City)
		}
	}
	return cities
}

// Get busca um imóvel pelo ID.
func (s *MarketplaceService) Get(id string) (models.Property, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Property{}, false
	}
	return s.properties[i], true
}

// Quote calcula o custo e os indicadores de uma compra de amount tokens.
func (s *MarketplaceService) Quote(id string, amount int64) (PurchaseQuote, error) {
	prop, ok := s.Get(id)
	if !ok {
		return PurchaseQuote{}, ErrPropertyNotFound
	}
	if amount <= 0 {
		return PurchaseQuote{}, ErrInvalidTokenAmount
	}
	remaining := prop.RemainingTokens()
	if amount > remaining {
		return PurchaseQuote{}, fmt.Errorf("%w: pedidos %d, restam %d", ErrInsufficientTokens, amount, remaining)
	}

	total := decimal.NewFromFloat(prop.TokenPrice).Mul(decimal.NewFromInt(amount))
	totalTokens := decimal.NewFromInt(prop.TotalTokens)
	available := float64(remaining) / float64(prop.TotalTokens) * 100

	return PurchaseQuote{
		PropertyID:          prop.ID,
		TokenAmount:         amount,
		TokenPrice:          prop.TokenPrice,
		TotalCost:           total,
		TotalCostDisplay:    formatUSD(total),
		RemainingTokens:     remaining,
		ProgressPercent:     float64(prop.SoldTokens) / float64(prop.TotalTokens) * 100,
		AvailablePercent:    int64(math.Round(available)),
		MonthlyRentPerToken: decimal.NewFromFloat(prop.MonthlyRent).Div(totalTokens),
		RestrictionLevel:    RestrictionLevel(prop.Compliance.Restrictions),
	}, nil
}

// RestrictionLevel classifica o peso das restrições de transferência.
func RestrictionLevel(restrictions []string) string {
	switch n := len(restrictions); {
	case n == 0:
		return "none"
	case n <= 2:
		return "low"
	case n <= 4:
		return "medium"
	default:
		return "high"
	}
}

// formatUSD formata um valor decimal em dólares ("$1,250.00").
func formatUSD(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}
