package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

const maxMessageSize = 4096

// Options tunes per-connection behaviour.
type Options struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = 54 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	return o
}

type WSHandler struct {
	service  *app.QuizService
	log      logrus.FieldLogger
	opts     Options
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger logrus.FieldLogger, opts Options) *WSHandler {
	return &WSHandler{
		service: service,
		log:     logger,
		opts:    opts.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades HTTP requests to websockets and feeds every frame to the quiz service.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}

	conn := newWSConn(ws, h.opts.SendBuffer)
	log := h.log.WithFields(logrus.Fields{"conn": conn.ID(), "remote": r.RemoteAddr})
	log.Info("websocket connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		conn.writePump(h.opts.PingInterval, h.opts.WriteTimeout, log)
	}()

	pongWait := h.opts.PingInterval * 10 / 9
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("websocket closed unexpectedly")
			}
			break
		}
		var msg app.Inbound
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			_ = conn.Send(app.ErrorMessage{Type: app.TypeError, Message: domain.ErrInvalidMessage.Error()})
			continue
		}
		h.service.Handle(r.Context(), conn, msg)
	}

	h.service.Disconnect(conn)
	_ = conn.Close()
	<-writerDone
	log.Info("websocket disconnected")
}
