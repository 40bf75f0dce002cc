// Package term is an incremental terminal backend built on tcell. Unlike the
// Bubble Tea frontend, which reprints the whole view every frame, it writes
// only the cells inside chunks the renderer flagged for upload.
package term

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/session"
	"github.com/vovakirdan/ascii-tilemap/internal/registry"
)

// Backend presents one session on a tcell screen.
type Backend struct {
	screen  tcell.Screen
	session *session.Session
	offset  core.Point // where the tilemap's top-left lands on the terminal
	written int        // cells written by the last present
}

// NewBackend binds an initialized tcell screen to s.
func NewBackend(screen tcell.Screen, s *session.Session) *Backend {
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	b := &Backend{screen: screen, session: s}
	b.Redraw()
	return b
}

// Offset returns the terminal position of the tilemap's top-left cell.
func (b *Backend) Offset() core.Point {
	return b.offset
}

// CellsWritten returns how many terminal cells the last present touched.
func (b *Backend) CellsWritten() int {
	return b.written
}

// Redraw clears the terminal, recenters the tilemap and writes every cell.
// Used at startup and after a resize.
func (b *Backend) Redraw() {
	src := b.session.Screen()
	w, h := b.screen.Size()
	b.offset = core.Pt(core.Max(0, (w-src.Width())/2), core.Max(0, (h-src.Height())/2))

	b.screen.Clear()
	b.present([]core.Rect{core.NewRect(0, 0, src.Width(), src.Height())})
}

// Step runs one session tick with in and writes the dirty areas.
func (b *Backend) Step(ctx context.Context, in core.InputFrame) {
	b.session.Tick(ctx, in)
	b.present(b.session.DirtyRects())
}

func (b *Backend) present(rects []core.Rect) {
	b.written = 0
	if len(rects) == 0 {
		return
	}
	src := b.session.Screen()
	for _, r := range rects {
		for p := range r.Points() {
			c := src.GetCell(p.X, p.Y)
			b.screen.SetContent(b.offset.X+p.X, b.offset.Y+p.Y, c.Rune, nil, cellStyle(c))
			b.written++
		}
	}
	b.screen.Show()
}

// Run drives the session at its tick rate until the user or the game quits,
// or ctx is cancelled.
func (b *Backend) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	events := pollEvents(b.screen, done)

	rate := b.session.Config().TickRate
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	input := core.NewInputFrame()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				action := actionForKey(ev)
				if action == core.ActionQuit {
					return nil
				}
				if action != core.ActionNone {
					input.Set(action)
				}
			case *tcell.EventResize:
				b.screen.Sync()
				b.Redraw()
			}

		case <-ticker.C:
			b.Step(ctx, input)
			input.Clear()
			if b.session.State().Quit {
				return nil
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed. Events polled after done is closed are dropped. The returned
// channel is closed when the pump exits.
func pollEvents(screen tcell.Screen, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case <-done:
				return
			default:
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// actionForKey maps a tcell key event to a game action.
func actionForKey(ev *tcell.EventKey) core.Action {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return core.ActionQuit
	case tcell.KeyUp:
		return core.ActionUp
	case tcell.KeyDown:
		return core.ActionDown
	case tcell.KeyLeft:
		return core.ActionLeft
	case tcell.KeyRight:
		return core.ActionRight
	case tcell.KeyEnter:
		return core.ActionConfirm
	case tcell.KeyEscape:
		return core.ActionBack
	case tcell.KeyTab:
		return core.ActionPause
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case ' ':
			return core.ActionFlap
		case 'p':
			return core.ActionPlay
		case 'q':
			return core.ActionQuit
		case 'r':
			return core.ActionRestart
		case 'b':
			return core.ActionBack
		case 'w':
			return core.ActionUp
		case 's':
			return core.ActionDown
		case 'a':
			return core.ActionLeft
		case 'd':
			return core.ActionRight
		}
	}
	return core.ActionNone
}

// cellStyle converts composed cell colors to a tcell style.
func cellStyle(c core.ScreenCell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.Fg.R), int32(c.Fg.G), int32(c.Fg.B))).
		Background(tcell.NewRGBColor(int32(c.Bg.R), int32(c.Bg.G), int32(c.Bg.B)))
}

// Play runs game on the controlling terminal and stores the session record
// when it ends.
func Play(ctx context.Context, game registry.Game, cfg core.RuntimeConfig, opts session.Options) error {
	if opts.Backend == "" {
		opts.Backend = "tcell"
	}
	s, err := session.New(game, cfg, opts)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Join(fmt.Errorf("term: %w", err), s.Close())
	}
	if err := screen.Init(); err != nil {
		return errors.Join(fmt.Errorf("term: %w", err), s.Close())
	}

	runErr := NewBackend(screen, s).Run(ctx)
	screen.Fini()
	return errors.Join(runErr, s.Close())
}
