package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/vikrantan5/PenSilc/internal/autosave"
	"github.com/vikrantan5/PenSilc/internal/engine"
	"github.com/vikrantan5/PenSilc/internal/metrics"
	"github.com/vikrantan5/PenSilc/internal/note"
)

const shutdownFlushTimeout = 10 * time.Second

type Option func(*Hub)

func WithMetrics(c *metrics.Collector) Option {
	return func(h *Hub) { h.metrics = c }
}

func WithSaverOptions(opts ...autosave.Option) Option {
	return func(h *Hub) { h.saverOpts = append(h.saverOpts, opts...) }
}

func WithEditorOptions(opts ...engine.Option) Option {
	return func(h *Hub) { h.editorOpts = append(h.editorOpts, opts...) }
}

// Hub tracks open editing sessions. Sessions never share an editor; two tabs
// on the same note each get their own and the last save wins.
type Hub struct {
	gateway    note.Gateway
	metrics    *metrics.Collector
	saverOpts  []autosave.Option
	editorOpts []engine.Option

	mu         sync.RWMutex
	clients    map[string]*Client // session id -> client
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(gateway note.Gateway, opts ...Option) *Hub {
	h := &Hub{
		gateway:    gateway,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics != nil {
		h.saverOpts = append(h.saverOpts, autosave.WithMetrics(h.metrics))
	}
	return h
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.flushAll()
			return
		}
	}
}

// Stop writes every session's pending change and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.session.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// Open loads one of the user's notes and prepares a session for it. Saves
// from the session are written as that user.
func (h *Hub) Open(ctx context.Context, noteID, userID string) (*Session, error) {
	store := note.ForOwner(h.gateway, userID)
	scene, err := store.LoadScene(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return newSession(noteID, userID, scene, store, h.editorOpts, h.saverOpts)
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.session.ID] = client
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.Sessions.Inc()
	}
	slog.Info("session opened", "user", client.session.UserID, "note", client.session.NoteID, "session", client.session.ID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.session.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.session.ID)
	h.mu.Unlock()

	client.session.Close()
	client.close()

	if h.metrics != nil {
		h.metrics.Sessions.Dec()
	}
	slog.Info("session closed", "user", client.session.UserID, "note", client.session.NoteID, "session", client.session.ID)
}

func (h *Hub) flushAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
	defer cancel()
	for _, c := range clients {
		if err := c.session.Flush(ctx); err != nil {
			slog.Error("flush session", "error", err, "note", c.session.NoteID, "session", c.session.ID)
		}
		c.session.Close()
	}
}

// Authenticator resolves the user behind a websocket upgrade request.
type Authenticator interface {
	Authenticate(r *http.Request) (string, error)
}

// ServeWS upgrades /ws/notes/{noteId} requests into editing sessions.
func (h *Hub) ServeWS(authn Authenticator, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noteID := mux.Vars(r)["noteId"]

		userID, err := authn.Authenticate(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		sess, err := h.Open(r.Context(), noteID, userID)
		if err != nil {
			if errors.Is(err, note.ErrNotFound) {
				http.Error(w, "note not found", http.StatusNotFound)
				return
			}
			slog.Error("open session", "error", err, "note", noteID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			sess.Close()
			return
		}

		client := NewClient(h, conn, sess)
		h.Register(client)

		client.Send(sess.welcome())
		client.Send(sess.render(0))

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
