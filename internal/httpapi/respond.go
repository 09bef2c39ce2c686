package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hospital-scheduler-api/internal/account"
	"hospital-scheduler-api/internal/scheduler"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return false
	}
	return true
}

func (a *api) schedulerError(w http.ResponseWriter, err error) {
	kind := scheduler.Kind(err)
	switch {
	case errors.Is(err, scheduler.ErrMissingField),
		errors.Is(err, scheduler.ErrInvalidInterval),
		errors.Is(err, scheduler.ErrInvalidDate),
		errors.Is(err, scheduler.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, kind, err.Error())
	case errors.Is(err, scheduler.ErrNotFound):
		writeError(w, http.StatusNotFound, kind, err.Error())
	case errors.Is(err, scheduler.ErrConflict):
		writeError(w, http.StatusConflict, kind, err.Error())
	case errors.Is(err, scheduler.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, kind, err.Error())
	default:
		a.log.Error("scheduler failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, kind, "internal error")
	}
}

func (a *api) accountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, account.ErrEmailTaken):
		writeError(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrInvalidRefresh):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	default:
		a.log.Error("account failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
