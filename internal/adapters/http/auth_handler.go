package http

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"portal/internal/adapters/http/middleware"
	"portal/internal/adapters/http/request"
	"portal/internal/adapters/http/response"
	"portal/internal/core/login"
	"portal/internal/core/session"
	"portal/internal/domain"
)

const SessionCookie = "session_id"

type AuthHandler struct {
	flow     login.Config
	deps     login.Deps
	sessions domain.SessionStore
	toasts   ToastScopes

	cookieTTL    time.Duration
	cookieSecure bool

	inflight sync.Map

	decoder request.RequestDecoder
	writer  response.ResponseWriter
}

type AuthOptions struct {
	Flow         login.Config
	CookieTTL    time.Duration
	CookieSecure bool
}

// NewAuthHandler builds a handler that runs one login flow per request.
// Navigator, Users and Notifier in deps are replaced per request; the
// notifier is the submitting browser's own banner.
func NewAuthHandler(
	opts AuthOptions,
	deps login.Deps,
	sessions domain.SessionStore,
	toasts ToastScopes,
	d request.RequestDecoder,
	w response.ResponseWriter,
) *AuthHandler {
	return &AuthHandler{
		flow:         opts.Flow,
		deps:         deps,
		sessions:     sessions,
		toasts:       toasts,
		cookieTTL:    opts.CookieTTL,
		cookieSecure: opts.CookieSecure,
		decoder:      d,
		writer:       w,
	}
}

type redirectRecorder struct {
	route string
}

func (r *redirectRecorder) Navigate(route string) {
	r.route = route
}

type loginData struct {
	User     *domain.User `json:"user,omitempty"`
	State    login.State  `json:"state"`
	Redirect string       `json:"redirect,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	owner := middleware.ClientID(r)
	if owner == "" {
		h.writer.Write(w, http.StatusBadRequest, &response.Response{
			Message: "missing client id",
		})
		return
	}

	var req domain.Credentials
	if err := h.decoder.Decode(r, &req); err != nil {
		h.writer.Write(w, http.StatusBadRequest, &response.Response{
			Message: err.Error(),
		})
		return
	}

	key := strings.ToLower(strings.TrimSpace(req.Email))
	if _, busy := h.inflight.LoadOrStore(key, struct{}{}); busy {
		h.writer.Write(w, http.StatusConflict, &response.Response{
			Message: domain.ErrSubmissionInProgress.Error(),
		})
		return
	}
	defer h.inflight.Delete(key)

	nav := &redirectRecorder{}
	rec := session.NewRecorder(h.sessions)

	deps := h.deps
	deps.Navigator = nav
	deps.Users = rec
	deps.Notifier = h.toasts.For(owner)

	ctrl := login.NewController(h.flow, deps)
	out, err := ctrl.SubmitCredentials(r.Context(), req)
	if err != nil {
		h.writer.Write(w, http.StatusConflict, &response.Response{
			Message: err.Error(),
		})
		return
	}

	if errors.Is(out.Err, domain.ErrValidation) {
		h.writer.WriteValidationError(w, out.FieldErrors)
		return
	}

	if out.User != nil && rec.Session != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    rec.Session.ID,
			Path:     "/",
			Expires:  time.Now().Add(h.cookieTTL),
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	h.writer.Write(w, http.StatusOK, &response.Response{
		Message: out.Message,
		Data: loginData{
			User:     out.User,
			State:    out.State,
			Redirect: nav.route,
		},
	})
}

// lookup resolves the session cookie. A nil session with a nil error means
// the caller is not signed in.
func (h *AuthHandler) lookup(r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	s, err := h.sessions.Get(r.Context(), cookie.Value)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	return s, err
}

func (h *AuthHandler) writeLookupFailure(w http.ResponseWriter, err error) {
	if err != nil {
		h.writer.Write(w, http.StatusInternalServerError, &response.Response{
			Message: "failed to get session",
		})
		return
	}
	h.writer.Write(w, http.StatusUnauthorized, &response.Response{
		Message: "unauthorized",
	})
}

// RequireSession rejects requests without a live session with 401.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.lookup(r)
		if s == nil {
			h.writeLookupFailure(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, err := h.lookup(r)
	if s == nil {
		h.writeLookupFailure(w, err)
		return
	}

	h.writer.Write(w, http.StatusOK, &response.Response{
		Data: s.User,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.writer.Write(w, http.StatusInternalServerError, &response.Response{
				Message: "failed to sign out",
			})
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.writer.Write(w, http.StatusOK, &response.Response{})
}
