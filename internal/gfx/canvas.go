package gfx

import "errors"

// ErrOutOfBounds reports a coordinate outside a surface's self rect.
var ErrOutOfBounds = errors.New("gfx: coordinate out of bounds")

// ErrInvalidData reports bulk surface data that cannot be decoded.
var ErrInvalidData = errors.New("gfx: invalid surface data")

// Canvas is the contract every fixed-size grid surface satisfies. Width and
// height are fixed for the surface's lifetime; the clip rect starts equal to
// the self rect and can only be narrowed.
//
// Value and SetValue are raw accessors: the shared algorithms in this package
// call them only at coordinates already clipped into both the self rect and
// the clip rect, so implementations need not re-check bounds. External
// callers must use a surface's bounds-checked accessors instead.
type Canvas[T comparable] interface {
	Width() int
	Height() int
	Value(x, y int) T
	SetValue(x, y int, v T)
	SelfRect() Rect
	ClipRect() Rect
	SetClipRect(r Rect)
}

// BlitOp describes one compositing request: copy a W×H region starting at
// (SrcX, SrcY) in the source to top-left (DstX, DstY) in the destination.
// FlipX and FlipY mirror the copied region around its own span. A non-nil
// Key skips source cells equal to it, leaving the destination untouched.
type BlitOp[T comparable] struct {
	SrcX, SrcY int
	DstX, DstY int
	W, H       int
	FlipX      bool
	FlipY      bool
	Key        *T
}

// Blit composites a region of src onto dst. Rectangles are clipped, never
// grown: requests partially or fully outside either surface degrade to the
// overlap, and an empty overlap is a no-op, not an error.
//
// The source region is staged in a scratch buffer before any write, so
// blitting a surface onto itself with overlapping regions never reads a cell
// the same call has already overwritten. Callers sharing surfaces behind a
// lock must acquire it once for the whole call and pass both views from that
// single acquisition; Blit itself takes no locks.
func Blit[T comparable](dst, src Canvas[T], op BlitOp[T]) {
	dstRect := dst.ClipRect().
		Intersect(dst.SelfRect()).
		Intersect(NewRect(op.DstX, op.DstY, op.W, op.H))
	if dstRect.IsEmpty() {
		return
	}

	// Clip the readable source region, carrying the destination clip across
	// so the two regions stay in 1:1 correspondence.
	srcRect := src.SelfRect().
		Intersect(NewRect(op.SrcX, op.SrcY, op.W, op.H)).
		Intersect(dstRect.Translate(op.SrcX-op.DstX, op.SrcY-op.DstY))
	if srcRect.IsEmpty() {
		return
	}
	dstRect = srcRect.Translate(op.DstX-op.SrcX, op.DstY-op.SrcY)

	w, h := srcRect.W, srcRect.H
	buf := make([]T, w*h)
	for row := 0; row < h; row++ {
		sy := srcRect.Y + row
		if op.FlipY {
			sy = srcRect.Y + h - 1 - row
		}
		for col := 0; col < w; col++ {
			sx := srcRect.X + col
			if op.FlipX {
				sx = srcRect.X + w - 1 - col
			}
			buf[row*w+col] = src.Value(sx, sy)
		}
	}

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			v := buf[row*w+col]
			if op.Key != nil && v == *op.Key {
				continue
			}
			dst.SetValue(dstRect.X+col, dstRect.Y+row, v)
		}
	}
}
