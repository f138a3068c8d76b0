package userws

import (
	"net/http"
	"slices"

	"portal/internal/adapters/http/middleware"
	"portal/internal/domain"
	"portal/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ToastService is the part of a banner a browser may act on.
type ToastService interface {
	Current() (domain.Toast, bool)
	Dismiss(reason domain.DismissReason) bool
}

// ToastScopes hands out the banner belonging to one browser.
type ToastScopes interface {
	For(owner string) domain.Toaster
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	toasts   ToastScopes
	log      logger.Logger
}

func NewHandler(hub *Hub, toasts ToastScopes, allowedOrigins []string, log logger.Logger) *Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			if !slices.Contains(allowedOrigins, origin) {
				log.Warn("ws origin rejected", "origin", origin)
				return false
			}
			return true
		},
	}

	return &Handler{
		hub:      hub,
		upgrader: upgrader,
		toasts:   toasts,
		log:      log,
	}
}

// Serve upgrades the connection and subscribes it to the calling browser's
// banner. The banner on screen is replayed once the subscription is live;
// the hub drops it if a newer change already went out.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	owner := middleware.ClientID(r)
	if owner == "" {
		http.Error(w, "missing client id", http.StatusUnauthorized)
		return
	}

	// The upgrade response is written by the websocket library, so a freshly
	// issued browser id cookie has to be passed along explicitly.
	var header http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header = http.Header{"Set-Cookie": cookies}
	}

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		h.log.Error("ws upgrade failed", "error", err)
		return
	}

	banner := h.toasts.For(owner)
	channel := domain.ToastChannelFor(owner)
	client := NewClient(h.hub, conn, banner, channel, h.log, uuid.NewString())

	h.hub.Register(client)
	if !h.hub.Subscribe(client, channel) {
		conn.Close()
		return
	}

	if t, ok := banner.Current(); ok {
		h.hub.Deliver(client, ToastShownEvent(domain.ToastShown{Owner: owner, Toast: t}))
	}

	go client.writePump()
	go client.readPump()

	h.log.Info("ws client connected", "remote_addr", conn.RemoteAddr())
}

func ToastShownEvent(ev domain.ToastShown) *domain.WsServerEvent {
	return &domain.WsServerEvent{
		Channel: domain.ToastChannelFor(ev.Owner),
		Event:   domain.WsEventToastShown,
		Seq:     ev.Toast.Seq,
		Payload: domain.ToastPayload{
			ID:         ev.Toast.ID,
			Message:    ev.Toast.Message,
			DurationMs: ev.Toast.DurationMs(),
		},
	}
}

func ToastDismissedEvent(ev domain.ToastDismissed) *domain.WsServerEvent {
	return &domain.WsServerEvent{
		Channel: domain.ToastChannelFor(ev.Owner),
		Event:   domain.WsEventToastDismissed,
		Seq:     ev.Seq,
		Payload: domain.ToastDismissedPayload{ID: ev.ID, Reason: ev.Reason},
	}
}
