package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/ferreirogomes/landledger/services"
)

// PortfolioHandler expõe o painel de investimentos do usuário.
type PortfolioHandler struct {
	Service *services.PortfolioService
}

func NewPortfolioHandler(s *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{Service: s}
}

// Get devolve posições, pagamentos e estatísticas.
// GET /portfolio
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Load(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Refresh recarrega o portfólio.
// POST /portfolio/refresh
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Refresh(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Holdings filtra as posições.
// GET /portfolio/holdings?property_id=&min_yield=&max_yield=&min_value=&max_value=&from=&to=
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	filters, err := parseHoldingFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	p, err := h.Service.Load(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	holdings := services.FilterHoldings(p.Holdings, filters)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"stats":    services.ComputeStats(holdings),
	})
}

// Export gera o relatório do portfólio. Exige KYC aprovado.
// GET /portfolio/export?format=csv
func (h *PortfolioHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := services.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = services.ExportCSV
	}
	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), currentUser(r).ID, format, &buf); err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func parseHoldingFilters(r *http.Request) (services.HoldingFilters, error) {
	q := r.URL.Query()
	f := services.HoldingFilters{PropertyID: q.Get("property_id")}

	var err error
	if f.YieldRange, err = parseRange(q.Get("min_yield"), q.Get("max_yield")); err != nil {
		return f, err
	}
	if f.ValueRange, err = parseRange(q.Get("min_value"), q.Get("max_value")); err != nil {
		return f, err
	}

	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		return f, nil
	}
	dr := &services.DateRange{}
	if from != "" {
		if dr.From, err = time.Parse(time.DateOnly, from); err != nil {
			return f, err
		}
	}
	if to != "" {
		if dr.To, err = time.Parse(time.DateOnly, to); err != nil {
			return f, err
		}
		dr.To = dr.To.Add(24*time.Hour - time.Nanosecond)
	}
	f.DateRange = dr
	return f, nil
}

// parseRange devolve nil quando nenhum limite foi informado. Um limite
// ausente fica aberto.
func parseRange(minRaw, maxRaw string) (*services.Range, error) {
	if minRaw == "" && maxRaw == "" {
		return nil, nil
	}
	rg := &services.Range{Max: 1e18}
	var err error
	if minRaw != "" {
		if rg.Min, err = parseBound(minRaw); err != nil {
			return nil, err
		}
	}
	if maxRaw != "" {
		if rg.Max, err = parseBound(maxRaw); err != nil {
			return nil, err
		}
	}
	return rg, nil
}
