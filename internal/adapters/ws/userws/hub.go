// Package userws pushes server events to browser clients over WebSocket.
package userws

import (
	"context"
	"encoding/json"

	"portal/internal/domain"
	"portal/internal/logger"
)

const eventQueue = 100

type clientSet map[*Client]struct{}

// Hub owns every connected client and its channel memberships. All state is
// touched only from Run.
type Hub struct {
	ctx    context.Context
	cancel context.CancelFunc

	clients clientSet
	members map[string]clientSet
	// seen is the highest sequence pushed per membership; older events
	// on that channel are dropped.
	seen map[membership]uint64

	joins  chan *Client
	leaves chan *Client
	subs   chan membership
	unsubs chan membership
	outbox chan *domain.WsServerEvent
	direct chan delivery

	log logger.Logger
}

type membership struct {
	client  *Client
	channel string
}

type delivery struct {
	client *Client
	event  *domain.WsServerEvent
}

func NewHub(parent context.Context, log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	return &Hub{
		ctx:     ctx,
		cancel:  cancel,
		clients: clientSet{},
		members: map[string]clientSet{},
		seen:    map[membership]uint64{},
		joins:   make(chan *Client),
		leaves:  make(chan *Client),
		subs:    make(chan membership),
		unsubs:  make(chan membership),
		outbox:  make(chan *domain.WsServerEvent, eventQueue),
		direct:  make(chan delivery),
		log:     log,
	}
}

// Run serves hub requests until Stop is called or the parent context ends.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return
		case c := <-h.joins:
			h.clients[c] = struct{}{}
			h.log.Info("ws: client joined", "id", c.ID, "clients", len(h.clients))
		case c := <-h.leaves:
			h.drop(c)
		case m := <-h.subs:
			h.join(m)
		case m := <-h.unsubs:
			h.leave(m)
		case ev := <-h.outbox:
			h.dispatch(ev)
		case d := <-h.direct:
			h.deliver(d)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// send hands v to ch unless the hub has already stopped.
func send[T any](h *Hub, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Broadcast queues an event; it is dropped once the hub has stopped.
func (h *Hub) Broadcast(ev *domain.WsServerEvent) {
	send(h, h.outbox, ev)
}

// Deliver pushes ev to c alone, subject to the same staleness check as
// broadcasts on ev's channel.
func (h *Hub) Deliver(c *Client, ev *domain.WsServerEvent) {
	send(h, h.direct, delivery{client: c, event: ev})
}

func (h *Hub) Register(c *Client) {
	send(h, h.joins, c)
}

func (h *Hub) Unregister(c *Client) {
	send(h, h.leaves, c)
}

// Subscribe adds c to channel. It reports false once the hub has stopped.
func (h *Hub) Subscribe(c *Client, channel string) bool {
	return send(h, h.subs, membership{client: c, channel: channel})
}

func (h *Hub) Unsubscribe(c *Client, channel string) bool {
	return send(h, h.unsubs, membership{client: c, channel: channel})
}

func (h *Hub) join(m membership) {
	if _, known := h.clients[m.client]; !known {
		return
	}
	set, ok := h.members[m.channel]
	if !ok {
		set = clientSet{}
		h.members[m.channel] = set
	}
	set[m.client] = struct{}{}
	h.log.Debug("ws: joined channel", "id", m.client.ID, "channel", m.channel)
}

func (h *Hub) leave(m membership) {
	set := h.members[m.channel]
	if _, ok := set[m.client]; !ok {
		return
	}
	delete(set, m.client)
	delete(h.seen, m)
	if len(set) == 0 {
		delete(h.members, m.channel)
	}
	h.log.Debug("ws: left channel", "id", m.client.ID, "channel", m.channel)
}

func (h *Hub) drop(c *Client) {
	if _, known := h.clients[c]; !known {
		return
	}
	delete(h.clients, c)
	close(c.send)

	for channel := range h.members {
		h.leave(membership{client: c, channel: channel})
	}
	h.log.Info("ws: client left", "id", c.ID, "clients", len(h.clients))
}

func (h *Hub) closeAll() {
	h.log.Info("ws: hub stopping", "clients", len(h.clients))
	for c := range h.clients {
		close(c.send)
	}
	h.clients = clientSet{}
	h.members = map[string]clientSet{}
	h.seen = map[membership]uint64{}
}

func (h *Hub) encode(ev *domain.WsServerEvent) ([]byte, bool) {
	frame, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws: encode event", "event", ev.Event, "error", err)
		return nil, false
	}
	return frame, true
}

// fresh reports whether ev is newer than anything c already got on its
// channel, and records it. Unsequenced and channel-less events always pass.
func (h *Hub) fresh(c *Client, ev *domain.WsServerEvent) bool {
	if ev.Seq == 0 || ev.Channel == "" {
		return true
	}
	key := membership{client: c, channel: ev.Channel}
	if ev.Seq <= h.seen[key] {
		return false
	}
	h.seen[key] = ev.Seq
	return true
}

// push reports false when c's buffer is full.
func (h *Hub) push(c *Client, ev *domain.WsServerEvent, frame []byte) bool {
	if !h.fresh(c, ev) {
		h.log.Debug("ws: stale event skipped", "id", c.ID, "event", ev.Event, "seq", ev.Seq)
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (h *Hub) deliver(d delivery) {
	if _, known := h.clients[d.client]; !known {
		return
	}
	frame, ok := h.encode(d.event)
	if !ok {
		return
	}
	if !h.push(d.client, d.event, frame) {
		h.log.Warn("ws: client too slow, disconnecting", "id", d.client.ID)
		h.drop(d.client)
	}
}

// dispatch fans ev out to its channel, or to everyone when it has none.
// Clients whose buffers are full are disconnected.
func (h *Hub) dispatch(ev *domain.WsServerEvent) {
	frame, ok := h.encode(ev)
	if !ok {
		return
	}

	targets := h.clients
	if ev.Channel != "" {
		targets = h.members[ev.Channel]
	}
	if len(targets) == 0 {
		h.log.Debug("ws: no listeners", "channel", ev.Channel, "event", ev.Event)
		return
	}

	var stalled []*Client
	for c := range targets {
		if !h.push(c, ev, frame) {
			stalled = append(stalled, c)
		}
	}
	for _, c := range stalled {
		h.log.Warn("ws: client too slow, disconnecting", "id", c.ID)
		h.drop(c)
	}
}
