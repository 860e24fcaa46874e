package httpx

import (
	"errors"
	"net/http"

	"github.com/vendaflow/vendaflow/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Classified errors keep their message; everything else hides details.
func RespondError(w http.ResponseWriter, err error) {
	detail := shared.UserSafeMessage(err)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", detail)
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", detail)
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", detail)
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", detail)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
