package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/landledger/metrics"
	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/services"
)

// KYCHandler lida com os documentos e a análise de KYC.
type KYCHandler struct {
	Service *services.KYCService
	Metrics *metrics.Metrics
}

func NewKYCHandler(s *services.KYCService, m *metrics.Metrics) *KYCHandler {
	return &KYCHandler{Service: s, Metrics: m}
}

func currentUser(r *http.Request) models.User {
	p, _ := PrincipalFrom(r.Context())
	return p.User()
}

// State devolve status e documentos, junto com o resultado da checagem de
// requisitos.
// GET /kyc
func (h *KYCHandler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.State(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":            st,
		"requirements_met": services.CheckRequirements(st.Documents),
	})
}

// Upload registra um documento. O arquivo em si não é recebido; apenas o
// nome e o tipo.
// POST /kyc/documents
func (h *KYCHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FileName string              `json:"file_name"`
		Type     models.DocumentType `json:"type"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	doc, st, err := h.Service.Upload(r.Context(), currentUser(r), body.FileName, body.Type)
	h.Metrics.RecordKYCOp("upload", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"document": doc, "state": st})
}

// Delete remove um documento.
// DELETE /kyc/documents/{id}
func (h *KYCHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	h.Metrics.RecordKYCOp("delete", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Submit envia o KYC para análise.
// POST /kyc/submit
func (h *KYCHandler) Submit(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.SubmitForReview(r.Context(), currentUser(r))
	h.Metrics.RecordKYCOp("submit", err)
	if err != nil {
		status, code := classify(err)
		writeJSON(w, status, map[string]interface{}{
			"code":    code,
			"message": err.Error(),
			"state":   st,
		})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Review registra a decisão de um moderador.
// POST /kyc/reviews/{userID}
func (h *KYCHandler) Review(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Decision models.KYCStatus `json:"decision"`
		Notes    string           `json:"notes"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	st, err := h.Service.Review(r.Context(), chi.URLParam(r, "userID"), body.Decision, body.Notes)
	h.Metrics.RecordKYCOp("review", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
