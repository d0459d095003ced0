package transport

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const handshakeTimeout = 5 * time.Second

// SocketLink talks to a network bridge that forwards websocket text
// frames to the robot. Every command is one frame.
type SocketLink struct {
	*line
	cfg    Config
	dialer *websocket.Dialer
}

func NewSocketLink(cfg Config) *SocketLink {
	return &SocketLink{
		line:   newLine("websocket " + cfg.URL),
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

// Connect dials the bridge. It is a no-op if the link is already up.
func (s *SocketLink) Connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.IsConnected() {
		return nil
	}
	if s.cfg.URL == "" {
		return fmt.Errorf("websocket link: no url configured")
	}
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.URL, err)
	}

	s.start(
		func(cmd string) error {
			return conn.WriteMessage(websocket.TextMessage, []byte(cmd))
		},
		func() error {
			_, msg, err := conn.ReadMessage()
			if err == nil && len(msg) > 0 {
				log.Printf("%s: robot says %q", s.name, msg)
			}
			return err
		},
		func() error {
			// best effort close frame; the peer may already be gone
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return conn.Close()
		},
	)
	return nil
}

// Close sends a close frame and waits, for a bounded time, for the I/O
// goroutines to exit.
func (s *SocketLink) Close() error {
	s.halt()
	return nil
}
