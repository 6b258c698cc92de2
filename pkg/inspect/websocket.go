package inspect

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/retree/pkg/tree"
)

// sendBuffer is the number of pending messages per client. A client that
// falls this far behind is disconnected.
const sendBuffer = 16

// Message is pushed to websocket clients.
type Message struct {
	// Type is "hello" for the first message and "snapshot" afterwards.
	Type string `json:"type"`

	// Client is the connection ID, set on hello.
	Client string `json:"client,omitempty"`

	// Tree is the realized snapshot.
	Tree *tree.Snapshot `json:"tree"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	once sync.Once
	done chan struct{}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	snap, err := s.config.Root.Snapshot(true)
	if err != nil {
		s.logger.Error("snapshot failed", "error", err)
		conn.Close()
		return
	}
	hello, err := json.Marshal(Message{Type: "hello", Client: c.id, Tree: snap})
	if err != nil {
		s.logger.Error("encode failed", "error", err)
		conn.Close()
		return
	}
	c.send <- hello

	if !s.register(c) {
		conn.Close()
		return
	}
	s.logger.Debug("client connected", "client", c.id)

	go s.writeLoop(c)
	go s.readLoop(c)
}

func (s *Server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.clients[c.id] = c
	s.wg.Add(2)
	return true
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
	c.close()
}

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// readLoop discards client messages and detects disconnects.
func (s *Server) readLoop(c *client) {
	defer s.wg.Done()
	defer s.unregister(c)
	c.conn.SetReadLimit(1024)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.logger.Debug("client disconnected", "client", c.id, "error", err)
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer s.wg.Done()
	defer s.unregister(c)
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("write failed", "client", c.id, "error", err)
				return
			}
		}
	}
}

// broadcast is the mount.Root subscriber. It never blocks: slow clients
// are disconnected.
func (s *Server) broadcast(snap *tree.Snapshot) {
	msg, err := json.Marshal(Message{Type: "snapshot", Tree: snap})
	if err != nil {
		s.logger.Error("encode failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.logger.Warn("client too slow, disconnecting", "client", c.id)
			delete(s.clients, c.id)
			c.close()
		}
	}
}
