// Package http provides the JSON API over the state store.
//
// This file implements parsing and validation helpers for request
// payloads.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"myfinance/internal/core"
)

// Request bodies keep amounts as strings so parsing stays explicit;
// nothing is silently coerced to zero.
type (
	entryRequest struct {
		Kind        string `json:"kind"`
		Value       string `json:"value"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Date        string `json:"date"`
	}

	goalRequest struct {
		Name     string `json:"name"`
		Price    string `json:"price"`
		Priority string `json:"priority"`
	}

	fixedCostRequest struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	categoryRequest struct {
		Name string `json:"name"`
	}

	profileRequest struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Bio   string `json:"bio"`
	}
)

const maxBodyBytes = 1 << 20 // 1MB

var errBadRequestBody = errors.New("invalid request body")

// decodeJSON reads a bounded JSON body into dst, rejecting trailing
// garbage and unknown shapes the way a form validator would.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequestBody, err)
	}
	if dec.More() {
		return errBadRequestBody
	}
	return nil
}

// parseEntryDate resolves the optional date field: empty means today.
func parseEntryDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

// sanitizeInput trims whitespace and strips control characters except
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// requiredQueryID extracts a non-empty id query parameter.
func requiredQueryID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	return id, id != ""
}
