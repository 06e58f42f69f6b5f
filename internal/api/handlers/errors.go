// Package handlers adapts the companion stores to HTTP.
package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/packs"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrDeckNotFound):
		return http.StatusNotFound
	case errors.Is(err, packs.ErrUnknownPackType):
		return http.StatusBadRequest
	case errors.Is(err, packs.ErrEmptyRarityPool):
		return http.StatusConflict
	case errors.Is(err, packs.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with the status its kind maps to.
func writeError(w http.ResponseWriter, err error) {
	response.Error(w, statusFor(err), err)
}
