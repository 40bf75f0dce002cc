package tilemap

import (
	"testing"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
)

func TestCamera(t *testing.T) {
	c := NewCamera(core.Pt(100, 20), 80, 50)

	if c.Left != 60 || c.Top != -5 {
		t.Errorf("NewCamera() left/top = %d/%d, expected 60/-5", c.Left, c.Top)
	}

	tests := []struct {
		world   core.Point
		screen  core.Point
		visible bool
	}{
		{core.Pt(100, 20), core.Pt(40, 25), true},
		{core.Pt(60, -5), core.Pt(0, 0), true},
		{core.Pt(139, 44), core.Pt(79, 49), true},
		{core.Pt(140, 20), core.Pt(80, 25), false},
		{core.Pt(59, 20), core.Pt(-1, 25), false},
	}
	for _, tc := range tests {
		got, ok := c.ToScreen(tc.world)
		if got != tc.screen || ok != tc.visible {
			t.Errorf("ToScreen(%v) = %v, %v, expected %v, %v", tc.world, got, ok, tc.screen, tc.visible)
		}
		if back := c.ToWorld(got); back != tc.world {
			t.Errorf("ToWorld(%v) = %v, expected %v", got, back, tc.world)
		}
	}

	c.Follow(core.Pt(40, 25))
	if c.Left != 0 || c.Top != 0 {
		t.Errorf("Follow() left/top = %d/%d, expected 0/0", c.Left, c.Top)
	}
}
