package subscribers

import (
	"portal/internal/adapters/ws/userws"
	"portal/internal/domain"
)

type ToastShown struct {
	hub Broadcaster
}

func NewToastShown(hub Broadcaster) *ToastShown {
	return &ToastShown{hub: hub}
}

func (s *ToastShown) Handle(event any) {
	evt, ok := event.(domain.ToastShown)
	if !ok {
		return
	}

	s.hub.Broadcast(userws.ToastShownEvent(evt))
}

type ToastDismissed struct {
	hub Broadcaster
}

func NewToastDismissed(hub Broadcaster) *ToastDismissed {
	return &ToastDismissed{hub: hub}
}

func (s *ToastDismissed) Handle(event any) {
	evt, ok := event.(domain.ToastDismissed)
	if !ok {
		return
	}

	s.hub.Broadcast(userws.ToastDismissedEvent(evt))
}
