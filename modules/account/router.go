package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snkrs-app/snkrs/pkg/logger"
	"github.com/snkrs-app/snkrs/pkg/session"
)

type handlers struct {
	storage *session.Storage
	authn   Authenticator
	cfg     Config
	log     *slog.Logger
	now     func() time.Time
}

// Router returns the account routes. The session middleware is applied here,
// so the router can be mounted anywhere.
func Router(storage *session.Storage, authn Authenticator, cfg Config, log *slog.Logger) chi.Router {
	if log == nil {
		log = logger.Discard()
	}
	h := &handlers{
		storage: storage,
		authn:   authn,
		cfg:     cfg,
		log:     log.With(logger.Component("account")),
		now:     time.Now,
	}

	r := chi.NewRouter()
	r.Use(storage.Middleware)

	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(storage.RequireAuth).Get("/me", h.me)

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type meResponse struct {
	UserID string         `json:"user_id"`
	Flash  map[string]any `json:"flash,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(w, r)
	if err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	userID, err := h.authn.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			h.log.ErrorContext(r.Context(), "authentication failed", logger.Error(err))
		}
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	sess := session.MustFromContext(r.Context())
	if err := h.storage.Regenerate(r.Context(), sess); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not start session"})
		return
	}

	sess.SetUserID(userID)
	sess.Flash("notice", "Welcome back, "+userID)
	if !req.Remember && h.cfg.ShortSessionTTL > 0 {
		sess.SetExpires(h.now().Add(h.cfg.ShortSessionTTL))
	} else {
		sess.ClearExpires()
	}

	if err := h.storage.Save(r.Context(), w, sess); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not start session"})
		return
	}

	h.log.InfoContext(r.Context(), "user signed in", logger.UserID(userID))
	writeJSON(w, http.StatusOK, meResponse{UserID: userID})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	userID := sess.UserID()

	if err := h.storage.Clear(r.Context(), w, sess); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not end session"})
		return
	}

	h.log.InfoContext(r.Context(), "user signed out", logger.UserID(userID))
	w.WriteHeader(http.StatusNoContent)
}

// me reports the signed-in user and consumes pending flash messages.
func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	resp := meResponse{UserID: sess.UserID(), Flash: sess.Flashes()}

	if resp.Flash != nil {
		if err := h.storage.Save(r.Context(), w, sess); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not update session"})
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (loginRequest, error) {
	var req loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	req.Remember, _ = strconv.ParseBool(r.PostForm.Get("remember"))
	return req, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
