package http

import (
	"net/http"

	"portal/internal/adapters/http/middleware"
	"portal/internal/adapters/http/response"
	"portal/internal/domain"
)

// ToastScopes hands out the banner belonging to one browser.
type ToastScopes interface {
	For(owner string) domain.Toaster
}

type ToastHandler struct {
	toasts ToastScopes
	writer response.ResponseWriter
}

func NewToastHandler(toasts ToastScopes, w response.ResponseWriter) *ToastHandler {
	return &ToastHandler{toasts: toasts, writer: w}
}

// banner is the caller's own banner; requests without a browser id have none.
func (h *ToastHandler) banner(r *http.Request) (domain.Toaster, bool) {
	owner := middleware.ClientID(r)
	if owner == "" {
		return nil, false
	}
	return h.toasts.For(owner), true
}

func (h *ToastHandler) Show(w http.ResponseWriter, r *http.Request) {
	banner, ok := h.banner(r)
	if !ok {
		h.writer.Write(w, http.StatusOK, &response.Response{})
		return
	}

	t, ok := banner.Current()
	if !ok {
		h.writer.Write(w, http.StatusOK, &response.Response{})
		return
	}

	h.writer.Write(w, http.StatusOK, &response.Response{
		Data: domain.ToastPayload{
			ID:         t.ID,
			Message:    t.Message,
			DurationMs: t.DurationMs(),
		},
	})
}

// Dismiss accepts the two user-initiated reasons. Timeouts are internal.
func (h *ToastHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	reason := domain.DismissReason(queryOr(r.URL.Query(), "reason", string(domain.DismissClose)))

	switch reason {
	case domain.DismissClose, domain.DismissClickaway:
	default:
		h.writer.WriteValidationError(w, map[string]string{
			"reason": "reason must be close or clickaway",
		})
		return
	}

	dismissed := false
	if banner, ok := h.banner(r); ok {
		dismissed = banner.Dismiss(reason)
	}

	h.writer.Write(w, http.StatusOK, &response.Response{
		Data: map[string]bool{"dismissed": dismissed},
	})
}
