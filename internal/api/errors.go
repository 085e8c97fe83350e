package api

import (
	"errors"
	"net/http"

	"github.com/ferrerallan/christmas-card-chain/internal/card"
	"github.com/ferrerallan/christmas-card-chain/internal/llm"
)

// MapErrorToStatusCode maps card generation errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var providerErr *llm.ProviderError

	switch {
	case errors.Is(err, card.ErrInvalidForm):
		return http.StatusBadRequest
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
