package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/rest"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
)

type gameUseCase interface {
	Open(ctx context.Context, id string) (*entity.GameView, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.GameView, error)
	Undo(ctx context.Context, id string) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
}

type client struct {
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

// Server pushes every change of a session to the sockets opened for it.
type Server struct {
	logger     *slog.Logger
	game       gameUseCase
	upgrader   websocket.Upgrader
	sessionTTL time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	clientsMutex sync.RWMutex
	clients      map[string]map[*client]struct{}

	handlers map[string]func(ctx context.Context, c *client, message *Message) error
}

func New(logger *slog.Logger, game gameUseCase, sessionTTL time.Duration) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessionTTL: sessionTTL,
		ctx:        ctx,
		cancel:     cancel,
		clients:    make(map[string]map[*client]struct{}),

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionCellSelect] = server.handleCellSelect
	server.handlers[actionGameUndo] = server.handleUndo
	server.handlers[actionGameRestart] = server.handleRestart

	return server
}

// ServeHTTP - upgrades the request and serves the socket until it closes.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	if that.ctx.Err() != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	sessionID := rest.SessionID(r)

	view, err := that.game.Open(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to open game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	header := http.Header{}
	if view.SessionID != sessionID {
		header.Add("Set-Cookie", rest.NewSessionCookie(view.SessionID, that.sessionTTL).String())
	}

	conn, err := that.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn, sessionID: view.SessionID, send: make(chan []byte, sendBufferSize)}
	log = log.With("sessionID", c.sessionID)

	if !that.register(c) {
		_ = conn.Close()
		return
	}

	log.Info("WebSocket connection established")

	go that.writeLoop(c)

	that.sendState(c, *view)

	that.readLoop(that.ctx, c)

	that.unregister(c)
	log.Info("WebSocket connection closed")
}

// Close - cancels in-flight requests and closes every socket. Later upgrades are refused.
func (that *Server) Close() {
	that.cancel()

	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	for _, clients := range that.clients {
		for c := range clients {
			_ = c.conn.Close()
		}
	}
}

// Broadcast - sends view to every socket of its session.
func (that *Server) Broadcast(view entity.GameView) {
	msg, err := newMessage(actionGameState, view)
	if err != nil {
		that.logger.Error("failed to marshal game state", "error", err)
		return
	}

	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	for c := range that.clients[view.SessionID] {
		that.enqueue(c, msg)
	}
}

func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "sessionID", c.sessionID)

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(c, "unknown action "+message.Action, nil)
			continue
		}

		if err := handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) writeLoop(c *client) {
	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			break
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			that.logger.Error("failed to write message", "sessionID", c.sessionID, "error", err)
			break
		}
	}

	_ = c.conn.Close()
}

func (that *Server) register(c *client) bool {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	if that.ctx.Err() != nil {
		return false
	}

	if that.clients[c.sessionID] == nil {
		that.clients[c.sessionID] = make(map[*client]struct{})
	}

	that.clients[c.sessionID][c] = struct{}{}

	return true
}

func (that *Server) unregister(c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	delete(that.clients[c.sessionID], c)
	if len(that.clients[c.sessionID]) == 0 {
		delete(that.clients, c.sessionID)
	}

	close(c.send)
}

// enqueue drops the message when the client is not keeping up. The caller holds clientsMutex.
func (that *Server) enqueue(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		that.logger.Warn("client is too slow, dropping message", "sessionID", c.sessionID)
	}
}

func (that *Server) sendState(c *client, view entity.GameView) {
	msg, err := newMessage(actionGameState, view)
	if err != nil {
		that.logger.Error("failed to marshal game state", "error", err)
		return
	}

	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	that.enqueue(c, msg)
}

func (that *Server) sendError(c *client, text string, view *entity.GameView) {
	msg, err := newMessage(actionGameError, ErrorPayload{Error: text, Game: view})
	if err != nil {
		that.logger.Error("failed to marshal error", "error", err)
		return
	}

	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	that.enqueue(c, msg)
}

func decodePayload(message *Message, v any) error {
	if len(message.Payload) == 0 {
		return nil
	}

	return json.Unmarshal(message.Payload, v)
}
