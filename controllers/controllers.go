package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gheetdufa/ifad-portal-sub001/models"
	"github.com/gheetdufa/ifad-portal-sub001/utils"
)

// Auth resolves the caller identity from the Authorization header. It is the
// only transport-level concern the controllers own; everything else belongs
// to the services.
type Auth struct {
	Secret []byte
}

func (a *Auth) Caller(r *http.Request) (models.Caller, error) {
	return utils.ResolveCaller(r.Header.Get("Authorization"), a.Secret)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses. Conflict and
// invalid-state both answer 409; store exhaustion answers 503.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, models.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeBody parses a JSON request body into a typed request struct.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", models.ErrValidation)
	}
	return nil
}
