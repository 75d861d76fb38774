package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/landledger/metrics"
	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/services"
)

// MarketplaceHandler lida com a listagem e o detalhe de imóveis.
type MarketplaceHandler struct {
	Service *services.MarketplaceService
	Metrics *metrics.Metrics
}

func NewMarketplaceHandler(s *services.MarketplaceService, m *metrics.Metrics) *MarketplaceHandler {
	return &MarketplaceHandler{Service: s, Metrics: m}
}

// PropertyDetail acompanha o imóvel com os indicadores da página de detalhe.
type PropertyDetail struct {
	models.Property
	RemainingTokens  int64  `json:"remaining_tokens"`
	RestrictionLevel string `json:"restriction_level"`
}

// Search filtra e ordena o catálogo.
// GET /properties?query=&city=&min_price=&max_price=&min_yield=&max_yield=&sort=
func (h *MarketplaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := services.DefaultSearchParams()
	params.Query = q.Get("query")
	if city := q.Get("city"); city != "" {
		params.City = city
	}
	if sort := q.Get("sort"); sort != "" {
		params.SortBy = services.SortKey(sort)
	}

	bounds := []struct {
		name string
		dst  *float64
	}{
		{"min_price", &params.PriceRange.Min},
		{"max_price", &params.PriceRange.Max},
		{"min_yield", &params.YieldRange.Min},
		{"max_yield", &params.YieldRange.Max},
	}
	for _, b := range bounds {
		raw := q.Get(b.name)
		if raw == "" {
			continue
		}
		v, err := parseBound(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", b.name+" deve ser numérico e finito")
			return
		}
		*b.dst = v
	}

	results := h.Service.Search(params)
	h.Metrics.RecordSearch(len(results))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"properties": results,
		"total":      len(results),
	})
}

// parseBound lê um limite de filtro. NaN e infinitos são rejeitados.
func parseBound(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("limite não finito: %s", raw)
	}
	return v, nil
}

// Cities lista as opções do filtro de cidade.
// GET /properties/cities
func (h *MarketplaceHandler) Cities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Cities())
}

// GetProperty obtém um imóvel pelo ID.
// GET /properties/{id}
func (h *MarketplaceHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	prop, found := h.Service.Get(chi.URLParam(r, "id"))
	if !found {
		writeServiceError(w, services.ErrPropertyNotFound)
		return
	}
	writeJSON(w, http.StatusOK, PropertyDetail{
		Property:         prop,
		RemainingTokens:  prop.RemainingTokens(),
		RestrictionLevel: services.RestrictionLevel(prop.Compliance.Restrictions),
	})
}

// Quote calcula o resumo de compra de tokens.
// POST /properties/{id}/quote
func (h *MarketplaceHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TokenAmount int64 `json:"token_amount"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	quote, err := h.Service.Quote(chi.URLParam(r, "id"), body.TokenAmount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
