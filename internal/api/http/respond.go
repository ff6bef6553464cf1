package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/logger"
	"bto-portal-backend/internal/security"
	"bto-portal-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain failures onto HTTP status codes. Anything without a
// mapping is treated as an internal error and its detail is kept out of the
// response body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadyHasActiveApplication),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoUnitsAvailable),
		errors.Is(err, domain.ErrNoOfficerSlots),
		errors.Is(err, domain.ErrOverlappingAssignment),
		errors.Is(err, domain.ErrConflictingRole),
		errors.Is(err, service.ErrNRICTaken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrProjectNotOpen),
		errors.Is(err, domain.ErrProjectNotVisible):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidNRIC):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
