// Package session talks to the game server over a websocket and turns its
// packets into store updates.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrClosed is returned when writing to a connection that was torn down.
var ErrClosed = errors.New("session: write on closed connection")

// Packet is one server frame.
type Packet struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Conn is a websocket connection with a reader goroutine feeding Packets.
type Conn struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	in     chan Packet
	closed bool
	log    *zap.Logger
}

// Dial connects to url. A non-empty token is sent as a bearer Authorization
// header so the server can resume the previous seat.
func Dial(ctx context.Context, url, token string, timeout time.Duration, log *zap.Logger) (*Conn, error) {
	if log == nil {
		log = zap.NewNop()
	}
	hdr := http.Header{}
	if tok := strings.TrimSpace(token); tok != "" {
		hdr.Set("Authorization", "Bearer "+tok)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout:  timeout,
		EnableCompression: true,
		Proxy:             http.ProxyFromEnvironment,
	}
	log.Debug("ws dial", zap.String("url", url), zap.Bool("token", hdr.Get("Authorization") != ""))

	ws, resp, err := dialer.DialContext(ctx, url, hdr)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			return nil, fmt.Errorf("dial %s: %s: %w", url, strings.TrimSpace(resp.Status+" "+string(body)), err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Conn{ws: ws, in: make(chan Packet, 128), log: log}
	go c.reader()
	return c, nil
}

// Packets is closed when the connection ends.
func (c *Conn) Packets() <-chan Packet { return c.in }

func (c *Conn) reader() {
	defer close(c.in)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if !c.Closed() {
				c.log.Info("ws read ended", zap.Error(err))
			}
			c.markClosed()
			return
		}
		var p Packet
		if err := json.Unmarshal(data, &p); err != nil {
			c.log.Warn("ws bad frame", zap.Error(err), zap.Int("bytes", len(data)))
			continue
		}
		c.in <- p
	}
}

// Send writes {"type": typ, "data": v}. A nil v omits data.
func (c *Conn) Send(typ string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	frame := struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: typ, Data: v}
	b, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode %s: %w", typ, err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
		c.closed = true
		_ = c.ws.Close()
		return fmt.Errorf("write %s: %w", typ, err)
	}
	return nil
}

func (c *Conn) Closed() bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Close sends a close frame and tears down the socket. Safe to call twice.
func (c *Conn) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.ws.Close()
}
