package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferreirogomes/landledger/services"
)

// ErrorResponse é o corpo de todas as respostas de erro.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError traduz os erros dos serviços para status HTTP.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "erro interno do servidor"
	}
	writeError(w, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrPropertyNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrSuggestionNotFound),
		errors.Is(err, services.ErrKYCNotStarted):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, services.ErrLoginFailed),
		errors.Is(err, services.ErrWalletAuthFailed),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, services.ErrInsufficientTokens),
		errors.Is(err, services.ErrNotPendingReview):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, services.ErrRequirementsNotMet):
		return http.StatusUnprocessableEntity, "KYC_REQUIREMENTS_NOT_MET"
	case errors.Is(err, services.ErrInvalidPropertyID),
		errors.Is(err, services.ErrInvalidTokenAmount),
		errors.Is(err, services.ErrInvalidProvider),
		errors.Is(err, services.ErrInvalidDocumentType),
		errors.Is(err, services.ErrInvalidFileName),
		errors.Is(err, services.ErrInvalidPreferences),
		errors.Is(err, services.ErrInvalidDecision),
		errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrGuestIDRequired):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "CANCELED"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
