package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"roadshare-backend/internal/lifecycle"
	"roadshare-backend/internal/logger"
	"roadshare-backend/internal/repository"
	"roadshare-backend/internal/security"
	"roadshare-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	// Transition and Reasons are set only for rejected transitions so the
	// client can show everything still blocking the action.
	Transition string   `json:"transition,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	var precond *lifecycle.PreconditionError
	switch {
	case errors.As(err, &precond):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:      precond.Error(),
			Transition: string(precond.Transition),
			Reasons:    precond.Reasons,
		})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not allowed"})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, repository.ErrStaleRental):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "rental was modified concurrently, please retry"})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}
