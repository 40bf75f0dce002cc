package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/session"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := NewHub(log.New(io.Discard))
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readJSON(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	//nolint:errcheck // Deadline errors surface on the read
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := ws.ReadJSON(v); err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func update(sessionID string, frame uint64, updates ...tilemap.TileUpdate) session.Update {
	u := session.Update{SessionID: sessionID, GameID: "flappy", Score: int(frame)}
	u.Number = frame
	u.Updates = updates
	for _, t := range updates {
		u.DirtyChunks = append(u.DirtyChunks, t.Chunk)
	}
	return u
}

func tile(x, y int, r rune) tilemap.TileUpdate {
	return tilemap.TileUpdate{
		Layer:     0,
		SubBuffer: 1,
		X:         x,
		Y:         y,
		Cell:      tilemap.NewCell(core.ColorWhite, tilemap.GlyphFromRune(r)),
	}
}

func TestHelloAndFrames(t *testing.T) {
	h, srv := newTestHub(t)
	ws := dial(t, srv, "")

	var hello Hello
	readJSON(t, ws, &hello)
	if hello.Type != TypeHello || hello.Client == "" {
		t.Fatalf("unexpected hello: %+v", hello)
	}
	if h.Clients() != 1 {
		t.Errorf("expected 1 client, got %d", h.Clients())
	}

	h.Observe(update("s1", 1, tile(3, 4, 'A')))

	var msg FrameMessage
	readJSON(t, ws, &msg)
	if msg.Type != TypeFrame || msg.SessionID != "s1" || msg.Number != 1 {
		t.Errorf("unexpected frame: %+v", msg)
	}
	if len(msg.Updates) != 1 || msg.Updates[0].Cell.Glyph.Rune() != 'A' {
		t.Errorf("unexpected updates: %+v", msg.Updates)
	}
	if msg.Updates[0].Cell.Color != core.ColorWhite {
		t.Errorf("expected color to survive the wire, got %v", msg.Updates[0].Cell.Color)
	}
}

func TestLateJoinerGetsSnapshot(t *testing.T) {
	h, srv := newTestHub(t)

	h.Observe(update("s1", 1, tile(0, 0, 'A'), tile(1, 0, 'B')))
	h.Observe(update("s1", 2, tile(0, 0, 'C')))

	ws := dial(t, srv, "")
	var hello Hello
	readJSON(t, ws, &hello)
	if len(hello.Sessions) != 1 || hello.Sessions[0].Frame != 2 {
		t.Fatalf("unexpected sessions in hello: %+v", hello.Sessions)
	}

	var snap Snapshot
	readJSON(t, ws, &snap)
	if snap.Type != TypeSnapshot || snap.SessionID != "s1" || snap.Frame != 2 {
		t.Fatalf("unexpected snapshot header: %+v", snap)
	}
	if len(snap.Tiles) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(snap.Tiles))
	}
	if snap.Tiles[0].Cell.Glyph.Rune() != 'C' || snap.Tiles[1].Cell.Glyph.Rune() != 'B' {
		t.Errorf("expected latest values C,B, got %q,%q",
			snap.Tiles[0].Cell.Glyph.Rune(), snap.Tiles[1].Cell.Glyph.Rune())
	}
}

func TestSessionFilterAndEnd(t *testing.T) {
	h, srv := newTestHub(t)
	ws := dial(t, srv, "?session=s2")

	var hello Hello
	readJSON(t, ws, &hello)

	h.Observe(update("s1", 1, tile(0, 0, 'A')))
	h.Observe(update("s2", 1, tile(0, 0, 'B')))

	var msg FrameMessage
	readJSON(t, ws, &msg)
	if msg.SessionID != "s2" {
		t.Errorf("expected only s2 frames, got %s", msg.SessionID)
	}

	h.Finish("s2")
	var end EndMessage
	readJSON(t, ws, &end)
	if end.Type != TypeEnd || end.SessionID != "s2" {
		t.Errorf("unexpected end message: %+v", end)
	}

	sessions := h.Sessions()
	if len(sessions) != 1 || sessions[0].ID != "s1" {
		t.Errorf("expected only s1 left, got %+v", sessions)
	}
}

func TestEmptyFramesNotBroadcast(t *testing.T) {
	h, srv := newTestHub(t)
	ws := dial(t, srv, "")

	var hello Hello
	readJSON(t, ws, &hello)

	h.Observe(update("s1", 1))
	h.Observe(update("s1", 2, tile(0, 0, 'A')))

	var msg FrameMessage
	readJSON(t, ws, &msg)
	if msg.Number != 2 {
		t.Errorf("expected the idle frame skipped, got frame %d", msg.Number)
	}
}

func TestSessionsEndpoint(t *testing.T) {
	h, srv := newTestHub(t)
	h.Observe(update("s1", 5, tile(0, 0, 'A')))

	resp, err := http.Get(srv.URL + "/sessions")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var sessions []SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Frame != 5 || sessions[0].Score != 5 {
		t.Errorf("unexpected sessions: %+v", sessions)
	}
}

func TestHubObservesRealSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	h := NewHub(log.New(io.Discard))

	spec := tilemap.NewTilemap().
		WithLayer(tilemap.NewLayer(0).TexturePath("terminal8x8.png").Size(4, 2).TileSize(8, 8)).
		MustBuild()
	s, err := session.New(&painter{spec: spec}, core.DefaultConfig(), session.Options{Observers: []session.Observer{h}})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	s.Tick(t.Context(), core.NewInputFrame())

	if got := h.Sessions(); len(got) != 1 || got[0].ID != s.ID() {
		t.Fatalf("expected the session to be tracked, got %+v", got)
	}
	s.Close()
	if got := h.Sessions(); len(got) != 0 {
		t.Errorf("expected the session forgotten after Close, got %+v", got)
	}
}

type painter struct {
	spec tilemap.TilemapSpec
}

func (p *painter) ID() string                           { return "painter" }
func (p *painter) Title() string                        { return "Painter" }
func (p *painter) Tilemap() tilemap.TilemapSpec         { return p.spec }
func (p *painter) Reset(core.RuntimeConfig)             {}
func (p *painter) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (p *painter) Draw(ctx *tilemap.DrawContext)        { ctx.Print(0, 0, "hi") }
func (p *painter) State() core.GameState                { return core.GameState{} }
