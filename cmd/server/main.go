package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portal/internal/adapters/accountapi"
	httpapi "portal/internal/adapters/http"
	"portal/internal/adapters/http/request"
	"portal/internal/adapters/http/response"
	redisstore "portal/internal/adapters/redis"
	"portal/internal/adapters/ws/userws"
	"portal/internal/adapters/ws/userws/subscribers"
	"portal/internal/config"
	"portal/internal/core/credential"
	"portal/internal/core/event"
	"portal/internal/core/login"
	"portal/internal/core/session"
	"portal/internal/core/toast"
	"portal/internal/core/verification"
	"portal/internal/domain"
	"portal/internal/logger"
	"portal/internal/workers"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	sweeps := workers.NewManager(log, workers.NewScheduler(log))

	sessions, closeSessions, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init session store", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	bus := event.New(log)
	toasts := toast.NewScopes(log,
		toast.WithDefaultDuration(cfg.ToastDuration),
		toast.WithBus(bus),
	)
	sweeps.Add(cfg.SessionSweepInterval, workers.NewToastSweepWorker(toasts, cfg.ToastIdle, log))

	hub := userws.NewHub(ctx, log)
	subscribers.Register(bus, hub)
	wsHandler := userws.NewHandler(hub, toasts, cfg.AllowedOrigins, log)

	accounts := accountapi.NewClient(cfg.AccountAPIURL, cfg.AccountAPITimeout, log)

	decoder := request.NewJSONDecoder()
	writer := response.NewJSONWriter(log)

	authHandler := httpapi.NewAuthHandler(
		httpapi.AuthOptions{
			Flow: login.Config{
				SubmitDelay:    cfg.LoginSubmitDelay,
				PostLoginRoute: cfg.PostLoginRoute,
			},
			CookieTTL:    cfg.SessionTTL,
			CookieSecure: cfg.CookieSecure,
		},
		login.Deps{
			Validator: credential.NewValidator(),
			Client:    accounts,
			Log:       log.With("component", "login"),
		},
		sessions,
		toasts,
		decoder,
		writer,
	)

	dialogs := verification.NewRegistry()
	sweeps.Add(cfg.DialogTTL/2, workers.NewDialogSweepWorker(dialogs, cfg.DialogTTL, log))

	if mem, ok := sessions.(*session.MemoryStore); ok {
		sweeps.Add(cfg.SessionSweepInterval, workers.NewSessionSweepWorker(mem, log))
	}

	router := httpapi.NewRouter(cfg, &httpapi.RouterDeps{
		Auth:         authHandler,
		Toast:        httpapi.NewToastHandler(toasts, writer),
		Verification: httpapi.NewVerificationHandler(dialogs, decoder, writer),
		WsToast:      wsHandler.Serve,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	sweeps.Start(gctx)

	g.Go(func() error {
		hub.Run()
		return nil
	})

	g.Go(func() error {
		log.Info("http: starting server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("http: server error", "error", err)
	}

	log.Info("server stopped")
}

func openSessionStore(ctx context.Context, cfg *config.Config, log logger.Logger) (domain.SessionStore, func(), error) {
	if cfg.SessionStore != "redis" {
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}

	rdb, err := redisstore.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("redis session store connected")

	return redisstore.NewSessionStore(rdb, cfg.SessionTTL), func() { rdb.Close() }, nil
}
