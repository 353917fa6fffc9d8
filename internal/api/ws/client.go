package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/wordduel/internal/model"
)

type client struct {
	id      model.ConnectionID
	user    model.PlayerID
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	// done is closed when the connection is torn down
	done      chan struct{}
	closeOnce sync.Once
	// drain asks the write pump to flush and say goodbye
	drain    chan struct{}
	stopOnce sync.Once
}

func (c *client) enqueue(msg []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- msg:
	default:
		c.hub.logger.Warn("send buffer full, closing connection", slog.String("conn", string(c.id)))
		c.close()
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) stop() {
	c.stopOnce.Do(func() {
		close(c.drain)
	})
}

func (c *client) readPump() {
	defer func() {
		c.close()
		c.hub.unregister(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("unexpected close",
					slog.String("conn", string(c.id)),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		if !c.limiter.Allow() {
			c.sendError("rate limit exceeded")
			continue
		}
		c.handle(payload)
	}
}

func (c *client) handle(payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch env.Event {
	case model.EventJoinGame:
		if _, err := c.hub.mm.Join(c.id, c.user); err != nil {
			c.sendError(err.Error())
		}
	case model.EventSubmitWord:
		var p model.SubmitWordPayload
		if len(env.Data) == 0 || json.Unmarshal(env.Data, &p) != nil {
			c.sendError("invalid submit_word payload")
			return
		}
		c.hub.mm.SubmitWord(c.id, p.Room, p.Word)
	default:
		c.sendError("unknown event")
	}
}

func (c *client) sendError(msg string) {
	c.hub.Send(c.id, model.EventError, model.ErrorPayload{Msg: msg})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			if !c.write(websocket.TextMessage, msg) {
				return
			}
		case <-ticker.C:
			if !c.write(websocket.PingMessage, nil) {
				return
			}
		case <-c.drain:
			c.flush()
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-c.done:
			return
		}
	}
}

func (c *client) flush() {
	for {
		select {
		case msg := <-c.send:
			if !c.write(websocket.TextMessage, msg) {
				return
			}
		default:
			return
		}
	}
}

func (c *client) write(messageType int, data []byte) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data) == nil
}
