package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wsustone/L2L-United/internal/domain"
)

// MapError resolves the HTTP status for a domain error. The classification is
// carried by the error itself (see domain.Fault), never parsed out of text.
func MapError(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteOK writes the 200 payload of a successful operation.
func WriteOK(w http.ResponseWriter, body any) {
	WriteJSON(w, http.StatusOK, body)
}

// WriteError writes `{"error": msg}` with the status mapped from err.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, MapError(err), map[string]string{"error": domain.UserMessage(err)})
}

// WriteMessageError writes `{"message": msg}`; the auth-email surface keeps
// the original wire shape.
func WriteMessageError(w http.ResponseWriter, err error) {
	WriteJSON(w, MapError(err), map[string]string{"message": domain.UserMessage(err)})
}
