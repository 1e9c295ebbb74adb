// Package transport exposes the server over websockets. Each connection is
// one session: frames are JSON envelopes, inbound frames are commands and
// outbound frames are replies and table events. A single writer goroutine
// per connection drains the session's outbound queue.
package transport

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"limitpoker/internal/codec"
	"limitpoker/internal/event"
	"limitpoker/internal/server"
)

// sendBuffer is the per-connection outbound queue depth. A client too slow
// to drain it loses events and must re-open the table to resync.
const sendBuffer = 256

type Handler struct {
	log      *zap.Logger
	srv      *server.Server
	upgrader websocket.Upgrader
}

func NewHandler(log *zap.Logger, srv *server.Server) *Handler {
	return &Handler{
		log: log,
		srv: srv,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	send := make(chan []byte, sendBuffer)
	var sess *server.Session
	sess = server.NewSession(func(e event.Event) {
		data, err := codec.EncodeEvent(e)
		if err != nil {
			h.log.Error("encode event", zap.String("kind", e.Kind()), zap.Error(err))
			return
		}
		select {
		case send <- data:
		default:
			h.log.Warn("outbound queue full, dropping event",
				zap.String("session", sess.ID),
				zap.String("kind", e.Kind()))
		}
	})
	h.log.Info("connection open",
		zap.String("session", sess.ID),
		zap.String("remote", conn.RemoteAddr().String()))

	go h.writeLoop(conn, send)
	h.readLoop(conn, sess, send)
}

// readLoop decodes inbound frames and dispatches them onto the server loop,
// queueing each reply behind any events the command produced.
func (h *Handler) readLoop(conn *websocket.Conn, sess *server.Session, send chan<- []byte) {
	defer func() {
		done := make(chan struct{})
		h.srv.Do(func() {
			h.srv.Detach(sess)
			close(done)
		})
		<-done
		close(send)
		h.log.Info("connection closed", zap.String("session", sess.ID))
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var reply any
		cmd, err := codec.DecodeCommand(data)
		if err != nil {
			reply = &codec.ErrorReply{Kind: "invalid_command", Message: err.Error()}
		} else {
			reply = h.srv.Dispatch(sess, cmd)
		}

		out, err := codec.EncodeReply(reply)
		if err != nil {
			h.log.Error("encode reply", zap.Error(err))
			continue
		}
		select {
		case send <- out:
		default:
			// The client cannot even drain its replies; give up.
			return
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, send <-chan []byte) {
	defer func() { _ = conn.Close() }()
	for data := range send {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Drain until the reader notices and closes the channel.
			continue
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
