package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

const ChannelToast = "toast"

const (
	WsEventToastShown     = "toast_shown"
	WsEventToastDismissed = "toast_dismissed"
)

const (
	WsClientSubscribe   = "subscribe"
	WsClientUnsubscribe = "unsubscribe"
	WsClientDismiss     = "dismiss"
)

type WsClientMessage struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WsServerEvent struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Seq     uint64 `json:"seq,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// ToastChannelFor names the channel carrying owner's banner. The empty
// owner maps to the unscoped channel.
func ToastChannelFor(owner string) string {
	if owner == "" {
		return ChannelToast
	}
	return ChannelToast + ":" + owner
}

type ToastPayload struct {
	ID         uuid.UUID `json:"id"`
	Message    string    `json:"message"`
	DurationMs int64     `json:"durationMs"`
}

type ToastDismissedPayload struct {
	ID     uuid.UUID     `json:"id"`
	Reason DismissReason `json:"reason"`
}
