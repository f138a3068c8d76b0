package subscribers

import (
	"portal/internal/adapters/ws/userws"
	"portal/internal/core/event"
	"portal/internal/domain"
)

type Broadcaster interface {
	Broadcast(ev *domain.WsServerEvent)
}

func Register(bus *event.Bus, hub Broadcaster) {
	toastShown := NewToastShown(hub)
	toastDismissed := NewToastDismissed(hub)

	bus.Subscribe(domain.ToastShown{}, toastShown.Handle)
	bus.Subscribe(domain.ToastDismissed{}, toastDismissed.Handle)
}

var _ Broadcaster = (*userws.Hub)(nil)
