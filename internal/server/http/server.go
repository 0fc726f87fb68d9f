// Package httpserver exposes the account and favorites REST API.
package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cinelist/cinelist/internal/errs"
	"github.com/cinelist/cinelist/internal/model"
	"github.com/cinelist/cinelist/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth  service.AuthService
	users service.UserService
	log   *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, users service.UserService, log *zap.Logger) *Server {
	return &Server{auth: auth, users: users, log: log}
}

// Authorize checks that the authenticated identity owns the account named in
// the request path. Pure comparison, no I/O.
func Authorize(id model.Identity, owner string) error {
	if id.Username != owner {
		return errs.ErrPermissionDenied
	}
	return nil
}

// Router builds the route table. Account-scoped routes all run the bearer
// authentication middleware and then the ownership check inside the handler.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(s.log), Logging(s.log))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/users", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	p := r.PathPrefix("/users/{username}").Subrouter()
	p.Use(s.requireAuth)
	p.HandleFunc("", s.handleGetUser).Methods(http.MethodGet)
	p.HandleFunc("", s.handleUpdateUser).Methods(http.MethodPut)
	p.HandleFunc("", s.handleDeleteUser).Methods(http.MethodDelete)
	p.HandleFunc("/favorites", s.handleListFavorites).Methods(http.MethodGet)
	p.HandleFunc("/favorites/{movieID}", s.handleAddFavorite).Methods(http.MethodPost)
	p.HandleFunc("/favorites/{movieID}", s.handleRemoveFavorite).Methods(http.MethodDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintln(w, "OK")
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday,omitempty"` // yyyy-mm-dd
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: malformed body", errs.ErrValidation))
		return
	}
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: birthday must be yyyy-mm-dd", errs.ErrValidation))
		return
	}

	u, err := s.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: birthday,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
	User        userResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: malformed body", errs.ErrValidation))
		return
	}

	tok, u, err := s.auth.Login(r.Context(), req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt.UTC().Format(time.RFC3339),
		User:        toUserResponse(u),
	})
}

// owner resolves the path owner and runs the ownership gate against the
// authenticated identity. Every account-scoped handler goes through here.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		// requireAuth always runs first; a missing identity is a wiring bug.
		s.writeError(w, r, errs.ErrNoToken)
		return "", false
	}
	username := mux.Vars(r)["username"]
	if err := Authorize(id, username); err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	return username, true
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username, ok := s.owner(w, r)
	if !ok {
		return
	}
	u, err := s.users.Get(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

type updateRequest struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email"`
	Birthday string `json:"birthday,omitempty"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	username, ok := s.owner(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: malformed body", errs.ErrValidation))
		return
	}
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: birthday must be yyyy-mm-dd", errs.ErrValidation))
		return
	}

	u, err := s.users.Update(r.Context(), username, service.UpdateInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: birthday,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username, ok := s.owner(w, r)
	if !ok {
		return
	}
	if err := s.users.Delete(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": username + " was deleted"})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	username, ok := s.owner(w, r)
	if !ok {
		return
	}
	favs, err := s.users.ListFavorites(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if favs == nil {
		favs = []string{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	username, ok := s.owner(w, r)
	if !ok {
		return
	}
	u, err := s.users.AddFavorite(r.Context(), username, mux.Vars(r)["movieID"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	username, ok := s.owner(w, r)
	if !ok {
		return
	}
	u, err := s.users.RemoveFavorite(r.Context(), username, mux.Vars(r)["movieID"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
