// Package sse pushes planner and note changes to browsers as Server-Sent
// Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// DashboardEvent hints that dashboard aggregates (today's schedule, pending
// assignments, note counts) should be refetched. It is throttled.
const DashboardEvent = "dashboard.updated"

const (
	heartbeatInterval = 25 * time.Second
	historySize       = 128
	clientBuffer      = 64
	retryMillis       = 3000
)

// Event is one named message. Data is encoded as JSON.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Change is the payload of "<resource>.<kind>" events.
type Change struct {
	ID string `json:"id"`
}

type frame struct {
	seq uint64
	raw []byte
}

type subscription struct {
	ch    chan []byte
	after uint64
}

// Broker fans events out to connected clients. Every event gets a sequence
// number that is sent as the SSE id, and the most recent events are kept so a
// reconnecting client with Last-Event-ID receives what it missed.
//
// One goroutine owns the clients, the history ring and the dashboard
// throttle; public methods talk to it over channels.
type Broker struct {
	dashboardMin time.Duration
	heartbeat    time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	changeCh      chan Event
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker that emits at most one dashboard hint per
// dashboardThrottle.
func NewBroker(dashboardThrottle time.Duration) *Broker {
	if dashboardThrottle <= 0 {
		dashboardThrottle = 2 * time.Second
	}
	b := &Broker{
		dashboardMin:  dashboardThrottle,
		heartbeat:     heartbeatInterval,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		changeCh:      make(chan Event, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go b.run()
	return b
}

func encode(seq uint64, e Event) ([]byte, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, e.Type, payload)), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	history := make([]frame, 0, historySize)
	var seq uint64
	var lastDashboard time.Time

	broadcast := func(e Event) {
		raw, err := encode(seq+1, e)
		if err != nil {
			return
		}
		seq++
		if len(history) == historySize {
			history = append(history[:0], history[1:]...)
		}
		history = append(history, frame{seq: seq, raw: raw})
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// slow client, drop
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			if sub.after > 0 {
				for _, f := range history {
					if f.seq <= sub.after {
						continue
					}
					select {
					case sub.ch <- f.raw:
					default:
					}
				}
			}
			clients[sub.ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case e := <-b.publishCh:
			broadcast(e)

		case e := <-b.changeCh:
			broadcast(e)
			if now := time.Now(); now.Sub(lastDashboard) >= b.dashboardMin {
				lastDashboard = now
				broadcast(Event{Type: DashboardEvent, Data: struct{}{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the broker and closes every client channel. It is safe to call
// more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client. Retained events with a sequence number above
// after are queued on the returned channel first; pass 0 for live events
// only.
func (b *Broker) Subscribe(after uint64) chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- subscription{ch: ch, after: after}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

func (b *Broker) send(ch chan Event, e Event) {
	if b.closed.Load() {
		return
	}
	select {
	case ch <- e:
	case <-b.stopped:
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(e Event) {
	b.send(b.publishCh, e)
}

// PublishChange announces that a resource was created, updated or deleted as
// event "<resource>.<kind>" with {"id": id}. It may be followed by a
// dashboard hint.
func (b *Broker) PublishChange(resource, kind, id string) {
	b.send(b.changeCh, Event{Type: resource + "." + kind, Data: Change{ID: id}})
}

// PublishNoteEvent adapts vault watcher callbacks to PublishChange.
func (b *Broker) PublishNoteEvent(kind, path string) {
	b.PublishChange("note", kind, path)
}

// lastEventID reads the resume point from the Last-Event-ID header, which
// browsers send on reconnect, or the lastEventId query parameter.
func lastEventID(r *http.Request) uint64 {
	v := r.Header.Get("Last-Event-ID")
	if v == "" {
		v = r.URL.Query().Get("lastEventId")
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ServeHTTP streams events to one client until it disconnects. A comment
// line is sent periodically so idle proxies keep the connection open.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	ch := b.Subscribe(lastEventID(r))
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
