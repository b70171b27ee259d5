package http

import (
	"errors"
	"net/http"

	"github.com/layer-3/porter/core"
)

// statusFromError maps the core error taxonomy onto HTTP status codes.
// Store unavailability is kept distinct from authorization failures so
// clients can tell "try again" from "you are not authorized".
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, core.ErrInvalidAddress):
		return http.StatusBadRequest, "invalid address"
	case errors.Is(err, core.ErrInvalidMessage):
		return http.StatusBadRequest, "invalid message"
	case errors.Is(err, core.ErrUserNotFound):
		return http.StatusBadRequest, "user not found"
	case errors.Is(err, core.ErrNonceMismatch):
		return http.StatusUnauthorized, "nonce mismatch"
	case errors.Is(err, core.ErrSignatureInvalid):
		return http.StatusUnauthorized, "invalid signature"
	case errors.Is(err, core.ErrRefreshInvalid):
		return http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, core.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
