// Package http provides the JSON API over the state store.
//
// This file implements response encoding and the mapping from domain
// errors to HTTP statuses and user-visible notifications.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"myfinance/internal/core"
)

// notification is the user-visible outcome of an operation; the page
// renders it as a blocking message.
type notification struct {
	Type    string `json:"type"` // "success" or "error"
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, notification{Type: "error", Message: msg})
}

func writeSuccess(w http.ResponseWriter, status int, msg string, payload any) {
	writeJSON(w, status, struct {
		notification
		Data any `json:"data,omitempty"`
	}{notification{Type: "success", Message: msg}, payload})
}

// writeDomainError maps validation errors to 422 with the sentinel
// message; anything else is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errBadRequestBody):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidKind,
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidPriority,
		core.ErrEmptyDescription,
		core.ErrDescriptionTooLong,
		core.ErrEmptyName,
		core.ErrEmptyCategory,
		core.ErrDuplicateCategory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
