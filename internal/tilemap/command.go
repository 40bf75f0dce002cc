package tilemap

import "github.com/vovakirdan/ascii-tilemap/internal/core"

// Command is a queued drawing operation. It is one of DrawTile, ClearLayer
// or ClearAllLayers.
type Command interface {
	command()
}

// DrawTile writes one glyph. X and Y are caller coordinates (top-left origin).
type DrawTile struct {
	X, Y       int
	Background core.Color
	Foreground core.Color
	Glyph      Glyph
}

// ClearLayer resets both sub-buffers of the owning layer.
type ClearLayer struct {
	Color core.Color
}

// ClearAllLayers resets every declared layer. It is queued on every layer so
// that each layer keeps its own command order.
type ClearAllLayers struct {
	Color core.Color
}

func (DrawTile) command()       {}
func (ClearLayer) command()     {}
func (ClearAllLayers) command() {}

// CommandQueue accumulates commands during a frame.
type CommandQueue struct {
	commands []Command
}

// Len reports how many commands are queued.
func (q *CommandQueue) Len() int {
	return len(q.commands)
}

// Push appends a command to the queue.
func (q *CommandQueue) Push(cmd Command) {
	if cmd == nil {
		return
	}
	q.commands = append(q.commands, cmd)
}

// Drain returns the queued commands in insertion order and empties the queue.
// The returned slice is only valid until the next Push.
func (q *CommandQueue) Drain() []Command {
	drained := q.commands
	q.commands = q.commands[:0]
	return drained
}
