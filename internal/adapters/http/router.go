package http

import (
	"net/http"

	"portal/internal/adapters/http/middleware"
	"portal/internal/config"
	"portal/internal/logger"
)

type RouterDeps struct {
	Auth         *AuthHandler
	Toast        *ToastHandler
	Verification *VerificationHandler
	WsToast      http.HandlerFunc
}

func NewRouter(cfg *config.Config, deps *RouterDeps, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.RequestLogger(log))
	globalMw.Use(middleware.CORS(cfg.AllowedOrigins))
	globalMw.Use(middleware.ClientScope(cfg.SessionTTL, cfg.CookieSecure))

	sessionStack := middleware.New()
	sessionStack.Use(middleware.CSRF(cfg.SessionTTL, cfg.CookieSecure))

	signedIn := middleware.New()
	signedIn.Use(deps.Auth.RequireSession)
	signedIn.Use(middleware.CSRF(cfg.SessionTTL, cfg.CookieSecure))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	if deps.WsToast != nil {
		mux.HandleFunc("GET /ws/toast", deps.WsToast)
	}

	mux.HandleFunc("POST /api/login", deps.Auth.Login)
	mux.Handle("GET /api/session", sessionStack.Then(http.HandlerFunc(deps.Auth.Session)))
	mux.Handle("DELETE /api/session", sessionStack.Then(http.HandlerFunc(deps.Auth.Logout)))

	mux.Handle("GET /api/toast", sessionStack.Then(http.HandlerFunc(deps.Toast.Show)))
	mux.Handle("DELETE /api/toast", sessionStack.Then(http.HandlerFunc(deps.Toast.Dismiss)))

	mux.Handle("POST /api/verification-dialogs", signedIn.Then(http.HandlerFunc(deps.Verification.Open)))
	mux.Handle("PUT /api/verification-dialogs/{id}", signedIn.Then(http.HandlerFunc(deps.Verification.Update)))
	mux.Handle("POST /api/verification-dialogs/{id}/confirm", signedIn.Then(http.HandlerFunc(deps.Verification.Confirm)))
	mux.Handle("POST /api/verification-dialogs/{id}/cancel", signedIn.Then(http.HandlerFunc(deps.Verification.Cancel)))

	return globalMw.Apply(mux)
}
