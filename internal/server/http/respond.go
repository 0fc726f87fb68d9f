package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cinelist/cinelist/internal/errs"
	"github.com/cinelist/cinelist/internal/model"
	"go.uber.org/zap"
)

// userResponse is the external account representation. Credential material
// never appears here.
type userResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Birthday  *string  `json:"birthday,omitempty"`
	Favorites []string `json:"favorites"`
}

func toUserResponse(u *model.User) userResponse {
	resp := userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Favorites: u.Favorites,
	}
	if resp.Favorites == nil {
		resp.Favorites = []string{}
	}
	if u.Birthday != nil {
		b := u.Birthday.Format(dateLayout)
		resp.Birthday = &b
	}
	return resp
}

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to transport status codes. The
// authentication failure family deliberately collapses into one generic 401
// body so the response does not reveal which check failed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errs.IsAuthFailure(err):
		s.log.Debug("auth failure",
			zap.String("path", r.URL.Path),
			zap.String("reason", err.Error()),
		)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, errs.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "permission denied"})
	case errors.Is(err, errs.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, errs.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many attempts"})
	case errors.Is(err, errs.ErrStoreUnavailable):
		s.log.Warn("store unavailable", zap.Error(err), zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "temporarily unavailable"})
	default:
		s.log.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal"})
	}
}

// parseDate parses an optional yyyy-mm-dd body field.
func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
