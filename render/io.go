package render

import (
	"context"
	"io"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]Triangle3, error) {
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err := r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return result, err
		}
	}
}

// WithContext returns a Renderer that stops with ctx.Err() once ctx is done.
// Cancellation is checked between reads so a read in progress completes.
func WithContext(ctx context.Context, r Renderer) Renderer {
	return &ctxRenderer{ctx: ctx, r: r}
}

type ctxRenderer struct {
	ctx context.Context
	r   Renderer
}

func (c *ctxRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.ReadTriangles(t)
}

// triangle3Buffer holds triangles produced by a cube that did not fit in
// the caller's slice.
type triangle3Buffer struct {
	buf []Triangle3
}

func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

func (b *triangle3Buffer) Write(t []Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }
