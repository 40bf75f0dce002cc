package tilemap

// Layer is the runtime form of a declared LayerSpec: a background and a
// foreground sub-buffer plus the layer's private command queue.
type Layer struct {
	spec  LayerSpec
	queue CommandQueue
}

func newLayer(spec LayerSpec) *Layer {
	return &Layer{spec: spec}
}

// ID returns the layer index.
func (l *Layer) ID() int {
	return l.spec.ID
}

// Spec returns the declaration the layer was built from.
func (l *Layer) Spec() LayerSpec {
	return l.spec
}

// Size returns the grid extent in tiles.
func (l *Layer) Size() Size {
	return l.spec.Size
}

// BackgroundID is the sub-buffer index of the background pass.
func (l *Layer) BackgroundID() int {
	return l.spec.ID * 2
}

// ForegroundID is the sub-buffer index of the foreground pass, always
// BackgroundID()+1.
func (l *Layer) ForegroundID() int {
	return l.spec.ID*2 + 1
}

// Transparent reports whether clears leave the background invisible.
func (l *Layer) Transparent() bool {
	return l.spec.Transparent
}

// BackgroundTransparent reports whether draws skip the background cell.
func (l *Layer) BackgroundTransparent() bool {
	return l.spec.BackgroundTransparent
}

// Pending returns the number of queued commands.
func (l *Layer) Pending() int {
	return l.queue.Len()
}

// InBounds reports whether the caller coordinate (x, y) is on the layer.
func (l *Layer) InBounds(x, y int) bool {
	return x >= 0 && x < l.spec.Size.W && y >= 0 && y < l.spec.Size.H
}

// index returns the sub-buffer index of caller coordinate (x, y), flipping y
// so that row 0 of the caller is the last stored row.
func (l *Layer) index(x, y int) int {
	flipped := l.spec.Size.H - 1 - y
	return flipped*l.spec.Size.W + x
}
