/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/buzzerbox/buzzer"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

// Hub tracks open websocket clients by connection id and delivers
// coordinator output to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     zerolog.Logger
}

type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan buzzer.Message
	limiter *rate.Limiter

	// written only by the coordinator goroutine
	session buzzer.Session
}

func newHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// Send queues msg for conn. It never blocks: frames for unknown connections
// or connections with a full buffer are dropped.
func (h *Hub) Send(conn string, msg buzzer.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[conn]
	if !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		h.log.Warn().Str("conn", conn).Str("type", msg.Type).Msg("send buffer full, dropping frame")
	}
}

func (h *Hub) Live(conn string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[conn]
	return ok
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func newLimiter(cfg *Config) *rate.Limiter {
	return rate.NewLimiter(rate.Every(cfg.rateWindow/time.Duration(cfg.rateLimit)), cfg.rateLimit)
}

func originChecker(allowed string) func(r *http.Request) bool {
	origins := make(map[string]bool)
	for o := range strings.SplitSeq(allowed, ",") {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins[strings.ToLower(o)] = true
		}
	}

	return func(r *http.Request) bool {
		if len(origins) == 0 || origins["*"] {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}

		return origins[strings.ToLower(u.Scheme+"://"+u.Host)]
	}
}

func serveWS(cfg *Config, hub *Hub, coord *buzzer.Coordinator) httprouter.Handle {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.corsOrigin),
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Debug().Err(err).Str("remote", realIP(r)).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			id:      uuid.NewString(),
			conn:    conn,
			send:    make(chan buzzer.Message, sendBuffer),
			limiter: newLimiter(cfg),
		}

		hub.register(client)

		logf(cfg, "SERVE: Opened connection %s for %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(cfg, hub, coord)
	}
}

func (c *Client) readPump(cfg *Config, h *Hub, coord *buzzer.Coordinator) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()

		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()

		err := coord.Dispatch(ctx, c.id, &c.session, buzzer.Disconnect{})
		if err != nil && !errors.Is(err, buzzer.ErrStopped) {
			h.log.Error().Err(err).Str("conn", c.id).Msg("disconnect not applied")
		}

		logf(cfg, "SERVE: Closed connection %s", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("conn", c.id).Msg("unexpected close")
			}
			return
		}

		if !c.limiter.Allow() {
			h.Send(c.id, buzzer.ErrorMessage("Rate limit exceeded"))
			continue
		}

		action, err := buzzer.DecodeAction(data)
		if err != nil {
			h.log.Debug().Err(err).Str("conn", c.id).Msg("dropping frame")
			h.Send(c.id, buzzer.ErrorMessage("Malformed request"))
			continue
		}

		coord.Submit(c.id, &c.session, action)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
