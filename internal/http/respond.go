package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleDomainError maps the error taxonomy onto HTTP statuses.
func handleDomainError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	var network *domain.NetworkError

	switch {
	case errors.Is(err, domain.ErrStockExceeded):
		respondError(w, http.StatusConflict, "stock_exceeded", err.Error())
	case errors.Is(err, domain.ErrEmptyBasket):
		respondError(w, http.StatusConflict, "empty_basket", err.Error())
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, "validation_error", validation.Error())
	case errors.As(err, &network):
		respondError(w, http.StatusBadGateway, "upstream_error", network.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
