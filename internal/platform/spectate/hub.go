// Package spectate streams running sessions to WebSocket clients. Each frame
// is sent as the list of tiles that changed; a client that joins late first
// receives a snapshot of every tile that differs from the initial display.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ascii-tilemap/internal/platform/session"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

const (
	sendBuffer = 256
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Message types on the wire.
const (
	TypeHello    = "hello"
	TypeSnapshot = "snapshot"
	TypeFrame    = "frame"
	TypeEnd      = "end"
)

// Hello is the first message a client receives.
type Hello struct {
	Type     string        `json:"type"`
	Client   string        `json:"client"`
	Sessions []SessionInfo `json:"sessions"`
}

// Snapshot carries the current tiles of one session.
type Snapshot struct {
	Type      string               `json:"type"`
	SessionID string               `json:"session"`
	GameID    string               `json:"game"`
	Frame     uint64               `json:"frame"`
	Tiles     []tilemap.TileUpdate `json:"tiles"`
}

// FrameMessage carries one frame of one session.
type FrameMessage struct {
	Type string `json:"type"`
	session.Update
}

// EndMessage tells clients a session is over.
type EndMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session"`
}

// SessionInfo describes a running session.
type SessionInfo struct {
	ID     string `json:"id"`
	GameID string `json:"game"`
	Frame  uint64 `json:"frame"`
	Score  int    `json:"score"`
}

type tileKey struct {
	sub, x, y int
}

// sessionState mirrors what a session currently shows.
type sessionState struct {
	info  SessionInfo
	tiles map[tileKey]tilemap.TileUpdate
}

func (st *sessionState) apply(u session.Update) {
	st.info.Frame = u.Number
	st.info.Score = u.Score
	for _, t := range u.Updates {
		st.tiles[tileKey{t.SubBuffer, t.X, t.Y}] = t
	}
}

func (st *sessionState) snapshot() Snapshot {
	tiles := make([]tilemap.TileUpdate, 0, len(st.tiles))
	for _, t := range st.tiles {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool {
		a, b := tiles[i], tiles[j]
		if a.SubBuffer != b.SubBuffer {
			return a.SubBuffer < b.SubBuffer
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return Snapshot{
		Type:      TypeSnapshot,
		SessionID: st.info.ID,
		GameID:    st.info.GameID,
		Frame:     st.info.Frame,
		Tiles:     tiles,
	}
}

// client is one WebSocket spectator.
type client struct {
	id      string
	session string // only this session, or every session when empty
	ws      *websocket.Conn
	send    chan []byte
}

func (c *client) wants(sessionID string) bool {
	return c.session == "" || c.session == sessionID
}

// Hub fans session frames out to spectators. It implements session.Observer
// and session.Finisher.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*client
	sessions map[string]*sessionState
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "spectate", ReportTimestamp: true})
	}
	return &Hub{
		clients:  make(map[string]*client),
		sessions: make(map[string]*sessionState),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Observe records the frame and forwards it to interested clients. Clients
// that cannot keep up are dropped.
func (h *Hub) Observe(u session.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.sessions[u.SessionID]
	if !ok {
		st = &sessionState{
			info:  SessionInfo{ID: u.SessionID, GameID: u.GameID},
			tiles: make(map[tileKey]tilemap.TileUpdate),
		}
		h.sessions[u.SessionID] = st
	}
	st.apply(u)

	if u.Empty() || len(h.clients) == 0 {
		return
	}
	data, err := json.Marshal(FrameMessage{Type: TypeFrame, Update: u})
	if err != nil {
		h.logger.Error("could not encode frame", "session", u.SessionID, "error", err)
		return
	}
	h.broadcast(u.SessionID, data)
}

// Finish forgets a session and tells its spectators.
func (h *Hub) Finish(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.sessions, sessionID)
	data, err := json.Marshal(EndMessage{Type: TypeEnd, SessionID: sessionID})
	if err != nil {
		return
	}
	h.broadcast(sessionID, data)
}

// broadcast must be called with h.mu held.
func (h *Hub) broadcast(sessionID string, data []byte) {
	for id, c := range h.clients {
		if !c.wants(sessionID) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow spectator", "client", id)
			h.removeLocked(id)
		}
	}
}

// Sessions lists the running sessions, sorted by id.
func (h *Hub) Sessions() []SessionInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessionsLocked()
}

func (h *Hub) sessionsLocked() []SessionInfo {
	out := make([]SessionInfo, 0, len(h.sessions))
	for _, st := range h.sessions {
		out = append(out, st.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler returns the HTTP routes: /ws upgrades to a spectator stream
// (optionally ?session=<id>), /sessions lists running sessions as JSON.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(h.Sessions()); err != nil {
			h.logger.Warn("could not write sessions", "error", err)
		}
	})
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		id:      uuid.NewString(),
		session: r.URL.Query().Get("session"),
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
	}
	if err := h.register(c); err != nil {
		h.logger.Warn("could not greet spectator", "error", err)
		ws.Close()
		return
	}
	h.logger.Info("spectator joined", "client", c.id, "session", c.session, "remote", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
}

// register queues the greeting and the snapshots before any frame can be
// broadcast to c.
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	hello, err := json.Marshal(Hello{Type: TypeHello, Client: c.id, Sessions: h.sessionsLocked()})
	if err != nil {
		return err
	}
	c.send <- hello

	for id, st := range h.sessions {
		if !c.wants(id) {
			continue
		}
		data, err := json.Marshal(st.snapshot())
		if err != nil {
			return err
		}
		select {
		case c.send <- data:
		default:
			return errors.New("spectate: too many sessions for one greeting")
		}
	}
	h.clients[c.id] = c
	return nil
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
}

// readPump discards client messages and notices disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c.id)
		c.ws.Close()
		h.logger.Info("spectator left", "client", c.id)
	}()

	c.ws.SetReadLimit(512)
	//nolint:errcheck // Deadline errors surface on the next read
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("error reading message", "client", c.id, "error", err)
			}
			return
		}
	}
}

// writePump writes queued messages and keeps the connection alive.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // Deadline errors surface on the write
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, say goodbye
				//nolint:errcheck // Connection is going away
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // Deadline errors surface on the write
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		h.logger.Info("spectator server listening", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
