package diagserver

import "sync"

// Broadcaster fans StatementEvents out to every subscribed WebSocket
// client, the same register/unregister/broadcast select loop the
// teacher's event broadcaster uses.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[chan StatementEvent]bool
	broadcast     chan StatementEvent
	register      chan chan StatementEvent
	unregister    chan chan StatementEvent
	done          chan struct{}
}

// NewBroadcaster creates and starts a broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[chan StatementEvent]bool),
		broadcast:     make(chan StatementEvent, 256),
		register:      make(chan chan StatementEvent),
		unregister:    make(chan chan StatementEvent),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case ch := <-b.register:
			b.mu.Lock()
			b.subscriptions[ch] = true
			b.mu.Unlock()

		case ch := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[ch] {
				delete(b.subscriptions, ch)
				close(ch)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for ch := range b.subscriptions {
				select {
				case ch <- event:
				default:
					// slow client, drop the event rather than block the broadcaster
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for ch := range b.subscriptions {
				close(ch)
			}
			b.subscriptions = make(map[chan StatementEvent]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe returns a channel that receives every future Broadcast call.
func (b *Broadcaster) Subscribe() chan StatementEvent {
	ch := make(chan StatementEvent, 64)
	b.register <- ch
	return ch
}

// Unsubscribe stops and closes a previously Subscribed channel.
func (b *Broadcaster) Unsubscribe(ch chan StatementEvent) {
	b.unregister <- ch
}

// Broadcast pushes event to every current subscriber, non-blocking.
func (b *Broadcaster) Broadcast(event StatementEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// Close shuts the broadcaster down and disconnects every subscriber.
func (b *Broadcaster) Close() {
	close(b.done)
}
