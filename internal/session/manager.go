package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nightfall/mafiatui/internal/config"
	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/secrets"
)

// ErrDisconnected is delivered as Event.Err when the server goes away.
var ErrDisconnected = errors.New("disconnected from server")

// TokenStore persists the reconnect token per server.
type TokenStore interface {
	Store(server, token string) error
	Fetch(server string) (string, error)
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithTokens(t TokenStore) Option {
	return func(m *Manager) { m.tokens = t }
}

// Manager owns at most one server connection and funnels everything it hears
// into a single Events channel. Store updates are never applied here; the UI
// applies them on its own goroutine.
type Manager struct {
	url     string
	timeout time.Duration
	tokens  TokenStore
	log     *zap.Logger

	mu     sync.Mutex
	conn   *Conn
	events chan Event
	done   chan struct{}
	closed bool
}

func NewManager(cfg config.ServerConfig, opts ...Option) *Manager {
	m := &Manager{
		url:     cfg.URL,
		timeout: cfg.HandshakeTimeout,
		log:     zap.NewNop(),
		events:  make(chan Event, 128),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Events delivers decoded packets in arrival order.
func (m *Manager) Events() <-chan Event { return m.events }

func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil && !m.conn.Closed()
}

// SetOutsideLobbyState leaves any game being watched and asks for a fresh
// lobby list, dialing first when there is no live connection. The in-game
// state is cleared through Events before the lobby list can arrive.
func (m *Manager) SetOutsideLobbyState(ctx context.Context) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	if err := m.emit(ctx, Event{Updates: []game.Update{game.LeaveGame()}}); err != nil {
		return err
	}
	return conn.Send(PacketLobbyListRequest, nil)
}

// Spectate asks to watch lobbyID. The server answers with gameState or
// rejectJoin.
func (m *Manager) Spectate(ctx context.Context, lobbyID uint32) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	return conn.Send(PacketSpectate, spectatePayload{LobbyID: lobbyID})
}

// Leave stops watching the current game.
func (m *Manager) Leave(ctx context.Context) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	if err := conn.Send(PacketLeave, nil); err != nil {
		return err
	}
	return m.emit(ctx, Event{Updates: []game.Update{game.LeaveGame()}})
}

// Close drops the connection. The manager cannot be reused.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	conn := m.conn
	m.conn = nil
	close(m.done)
	m.mu.Unlock()
	return conn.Close()
}

func (m *Manager) connect(ctx context.Context) (*Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.conn != nil && !m.conn.Closed() {
		return m.conn, nil
	}

	token := ""
	if m.tokens != nil {
		tok, err := m.tokens.Fetch(m.url)
		switch {
		case err == nil:
			token = tok
		case !errors.Is(err, secrets.ErrNotFound):
			m.log.Warn("read reconnect token", zap.Error(err))
		}
	}

	conn, err := Dial(ctx, m.url, token, m.timeout, m.log)
	if err != nil {
		return nil, err
	}
	m.conn = conn
	go m.forward(conn)
	return conn, nil
}

func (m *Manager) forward(conn *Conn) {
	for p := range conn.Packets() {
		ev, err := Decode(p)
		if err != nil {
			m.log.Warn("drop packet", zap.String("type", p.Type), zap.Error(err))
			continue
		}
		if ev.Token != "" && m.tokens != nil {
			if err := m.tokens.Store(m.url, ev.Token); err != nil {
				m.log.Error("save reconnect token", zap.Error(err))
			}
		}
		if err := m.emit(context.Background(), ev); err != nil {
			return
		}
	}

	m.mu.Lock()
	current := m.conn == conn
	if current {
		m.conn = nil
	}
	closed := m.closed
	m.mu.Unlock()
	if current && !closed {
		_ = m.emit(context.Background(), Event{Err: ErrDisconnected})
	}
}

func (m *Manager) emit(ctx context.Context, ev Event) error {
	select {
	case m.events <- ev:
		return nil
	case <-m.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
