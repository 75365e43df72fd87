package gfx

import "sync"

// Shared wraps a surface in a mutex for use across call sites. One
// acquisition covers one logical operation: a blit between two views of the
// same handle must run inside a single With call, never as two nested
// acquisitions of the same handle.
type Shared[T any] struct {
	mu sync.Mutex
	v  *T
}

// NewShared wraps v in a lock-guarded handle.
func NewShared[T any](v *T) *Shared[T] {
	return &Shared[T]{v: v}
}

// With runs f with the lock held.
func (s *Shared[T]) With(f func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.v)
}

// SharedImage is a lock-guarded image handle. A tilemap holds one to resolve
// tiles at render time; renderers must go through With, tilemap cell
// operations never touch the image.
type SharedImage = Shared[Image]

// SharedTilemap is a lock-guarded tilemap handle.
type SharedTilemap = Shared[Tilemap]

// ShareImage wraps an image in a shared handle.
func ShareImage(m *Image) *SharedImage {
	return NewShared(m)
}

// ShareTilemap wraps a tilemap in a shared handle.
func ShareTilemap(t *Tilemap) *SharedTilemap {
	return NewShared(t)
}
