package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeTimeout = 10 * time.Second

	// A browser tab that stops answering pings for this long is dropped
	idleTimeout  = 60 * time.Second
	pingInterval = idleTimeout / 2

	// Subscribers never send anything meaningful; cap inbound frames small
	maxInboundFrame = 512

	// Change events a subscriber may fall behind by before it is dropped
	subscriberQueueSize = 64
)

// Subscriber is one browser connection listening for ledger change events.
// Events are queued per subscriber; one that falls subscriberQueueSize
// events behind is disconnected and expected to reconnect and refetch.
type Subscriber struct {
	id          string
	conn        *websocket.Conn
	hub         *Hub
	queue       chan []byte
	connectedAt time.Time

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewSubscriber wraps an upgraded connection
func NewSubscriber(conn *websocket.Conn, hub *Hub) *Subscriber {
	return &Subscriber{
		id:          uuid.NewString(),
		conn:        conn,
		hub:         hub,
		queue:       make(chan []byte, subscriberQueueSize),
		connectedAt: time.Now(),
	}
}

func (s *Subscriber) ID() string {
	return s.id
}

// Send queues an encoded event. It never blocks: a full queue yields
// ErrSubscriberLagging and the hub drops the subscriber.
func (s *Subscriber) Send(data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClientClosed
	}
	select {
	case s.queue <- data:
		return nil
	default:
		return ErrSubscriberLagging
	}
}

// Close ends the connection; later calls are no-ops
func (s *Subscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()

		err = s.conn.Close()
	})
	return err
}

// Listen reads until the browser goes away, keeping the idle deadline
// fresh on every pong. Inbound messages are discarded.
func (s *Subscriber) Listen() {
	defer func() {
		s.hub.Unregister(s)
		s.Close()
		log.Info().
			Str("client_id", s.id).
			Dur("connected_for", time.Since(s.connectedAt)).
			Msg("Ledger subscriber disconnected")
	}()

	s.conn.SetReadLimit(maxInboundFrame)
	s.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", s.id).Msg("Ledger subscriber closed unexpectedly")
			}
			return
		}
	}
}

// Deliver writes queued events in order and pings on pingInterval. It
// returns once the queue is closed or a write fails.
func (s *Subscriber) Deliver() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case event, ok := <-s.queue:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "resync required"))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				log.Warn().Err(err).Str("client_id", s.id).Msg("Failed to deliver ledger event")
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
