// Package tilemap implements a layered code-page-437 tile renderer.
//
// Drawing happens in three strictly ordered stages per frame:
//
//  1. Application code calls a DrawContext (Set, Print, Cls, BarHorizontal...),
//     which only appends Commands to the active layer's queue.
//  2. RenderFrame folds every layer's queue, in FIFO order, into the TileBuffer,
//     the authoritative "what should be drawn" state. Each declared layer owns
//     two sub-buffers: a background pass and a foreground pass.
//  3. The differ compares the TileBuffer with the tiles currently on display,
//     rewrites only the tiles that changed and flags each owning chunk for a
//     single re-upload.
//
// Callers address layers with the origin at the top-left; sub-buffers are
// stored bottom-left-origin, so the y axis is flipped when commands are applied.
//
// Nothing in this package blocks or synchronizes. A Renderer and its
// DrawContext belong to a single goroutine.
package tilemap
