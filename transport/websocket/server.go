package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

var ErrClientClosed = errors.New("client connection is closed")

type stateSource interface {
	State() *entity.GameState
}

// Server pushes game updates to every connected browser tab.
type Server struct {
	logger   *slog.Logger
	upgrader ws.Upgrader

	mu      sync.RWMutex
	clients map[string]*client

	handlers map[string]func(ctx context.Context, c *client, source stateSource) error
}

func New(logger *slog.Logger, allowedOrigins []string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		clients: make(map[string]*client),
	}

	server.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}

	server.handlers = map[string]func(context.Context, *client, stateSource) error{
		actionGameState: server.handleGameState,
	}

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string, source stateSource) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that.Handler(ctx, source))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		that.closeAll()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-shutdownDone

	return nil
}

// Handler - upgrades requests and serves the connection until the client leaves.
func (that *Server) Handler(ctx context.Context, source stateSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := that.logger.With("method", "upgradeConnection")

		conn, err := that.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("failed to upgrade connection", "error", err)
			return
		}

		c := &client{id: uuid.NewString(), conn: conn}
		that.register(c)
		defer that.unregister(c)

		log.Info("WebSocket connection established", "clientID", c.id)

		if err = that.handleGameState(ctx, c, source); err != nil {
			log.Error("failed to send initial state", "clientID", c.id, "error", err)
			return
		}

		that.handleMessages(ctx, c, source)
	})
}

// Broadcast - sends the message to every connected client. Clients that cannot be written are dropped.
func (that *Server) Broadcast(action string, payload any) {
	log := that.logger.With("method", "Broadcast", "action", action)

	data, err := encodeMessage(action, payload)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return
	}

	that.mu.RLock()
	clients := make([]*client, 0, len(that.clients))
	for _, c := range that.clients {
		clients = append(clients, c)
	}
	that.mu.RUnlock()

	for _, c := range clients {
		if err = c.write(data); err != nil {
			log.Warn("failed to send message, dropping client", "clientID", c.id, "error", err)
			that.unregister(c)
		}
	}
}

// Clients - number of connected clients.
func (that *Server) Clients() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client, source stateSource) {
	log := that.logger.With("method", "handleMessages", "clientID", c.id)

	done := make(chan struct{})
	defer close(done)
	go that.keepAlive(c, done)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(c, "invalid message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(c, "unknown action")
			continue
		}

		if err = handler(ctx, c, source); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) handleGameState(_ context.Context, c *client, source stateSource) error {
	data, err := encodeMessage(actionGameState, source.State())
	if err != nil {
		return err
	}

	return c.write(data)
}

func (that *Server) sendError(c *client, text string) {
	data, err := encodeMessage(actionError, errorPayload{Error: text})
	if err != nil {
		that.logger.Error("failed to encode error", "error", err)
		return
	}

	if err = c.write(data); err != nil {
		that.logger.Warn("failed to send error", "clientID", c.id, "error", err)
	}
}

func (that *Server) keepAlive(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

func (that *Server) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c.id] = c
}

func (that *Server) unregister(c *client) {
	that.mu.Lock()
	delete(that.clients, c.id)
	that.mu.Unlock()

	c.close()
}

func (that *Server) closeAll() {
	that.mu.Lock()
	clients := that.clients
	that.clients = make(map[string]*client)
	that.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
