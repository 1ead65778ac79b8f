package ws

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/yourorg/wallboard/internal/hub"
)

// Server turns each websocket upgrade into a hub subscription relayed
// to the viewer until disconnect.
type Server struct {
	hub           *hub.Hub
	pingInterval  time.Duration
	writeDeadline time.Duration
	log           *zap.SugaredLogger
}

func NewServer(h *hub.Hub, pingInterval, writeDeadline time.Duration, log *zap.SugaredLogger) *Server {
	return &Server{
		hub:           h,
		pingInterval:  pingInterval,
		writeDeadline: writeDeadline,
		log:           log,
	}
}

// HandleWS runs two pumps per connection: the write pump relays hub
// events, the read pump only watches for close/errors — viewers send
// no application data. When the read pump ends the subscription is
// closed, which drains and ends the write pump via channel close.
func (s *Server) HandleWS() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		sub := s.hub.Subscribe()
		addr := conn.RemoteAddr().String()
		s.log.Infow("viewer connected", "addr", addr)

		go s.writePump(conn, sub)
		s.readPump(conn)

		sub.Close()
		_ = conn.Close()
		s.log.Infow("viewer disconnected", "addr", addr)
	}
}

func (s *Server) readPump(conn *websocket.Conn) {
	readWait := 2 * s.pingInterval
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, sub *hub.Subscriber) {
	ticker := time.NewTicker(s.pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeDeadline))
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Warnw("event write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeDeadline))
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
