package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/educode-dev/educode-backend/internal/auth"
	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/grading"
	"github.com/educode-dev/educode-backend/internal/progress"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

// statusFor maps domain errors onto HTTP statuses. A wrong answer is
// never an error; only validation faults, missing rows and infrastructure
// failures end up here.
func statusFor(err error) int {
	switch {
	case errors.Is(err, content.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, grading.ErrUnknownTaskType),
		errors.Is(err, grading.ErrInvalidPayload),
		errors.Is(err, content.ErrOrderOutOfRange),
		errors.Is(err, progress.ErrAlreadyEnrolled),
		errors.Is(err, progress.ErrCourseEmpty),
		errors.Is(err, auth.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("bad json")
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func identity(r *http.Request) (auth.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}
