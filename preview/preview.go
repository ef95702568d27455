// Package preview renders shaded images of enclosure meshes.
package preview

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/pcbbox/internal/d3"
	"github.com/soypat/pcbbox/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Part colors.
const (
	BoxColor        = "#F2C230"
	LidColor        = "#468966"
	BackgroundColor = "#FFF8E3"
)

// View configures the camera. Eye, LookAt and Up are given in the
// normalized scene space where the meshes fit in a bi-unit cube.
type View struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and
	// downsamples for antialiasing.
	Supersample int
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	FOV       float64 // vertical field of view in degrees
	Near, Far float64
}

// DefaultView is an isometric view looking down on the scene.
func DefaultView() View {
	return View{
		Width:       768,
		Height:      432,
		Supersample: 2,
		Up:          r3.Vec{Z: 1},
		Eye:         d3.Elem(2.4),
		FOV:         30,
		Near:        1,
		Far:         10,
	}
}

// Mesh is a colored triangle mesh.
type Mesh struct {
	Triangles []render.Triangle3
	Color     string // hex color
}

// Render draws the meshes. Every mesh is scaled by the same amount so
// the whole scene fits in a bi-unit cube centered at the origin.
func Render(meshes []Mesh, v View) (image.Image, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	var bb d3.Box
	n := 0
	for _, m := range meshes {
		if len(m.Triangles) == 0 {
			continue
		}
		mb := d3.Box(render.Bounds(m.Triangles))
		if n == 0 {
			bb = mb
		} else {
			bb = bb.Extend(mb)
		}
		n++
	}
	if n == 0 {
		return nil, errors.New("nothing to preview")
	}
	size := d3.Max(bb.Size())
	if size <= 0 {
		return nil, errors.New("scene has zero size")
	}
	center := bb.Center()
	scale := 2 / size

	ss := max(v.Supersample, 1)
	var (
		eye    = fauxgl.V(v.Eye.X, v.Eye.Y, v.Eye.Z)
		lookat = fauxgl.V(v.LookAt.X, v.LookAt.Y, v.LookAt.Z)
		up     = fauxgl.V(v.Up.X, v.Up.Y, v.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(v.Width*ss, v.Height*ss)
	context.ClearColorBufferWith(fauxgl.HexColor(BackgroundColor))
	aspect := float64(v.Width) / float64(v.Height)
	matrix := fauxgl.LookAt(eye, lookat, up).Perspective(v.FOV, aspect, v.Near, v.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	context.Shader = shader
	for _, m := range meshes {
		if len(m.Triangles) == 0 {
			continue
		}
		color := m.Color
		if color == "" {
			color = BoxColor
		}
		shader.ObjectColor = fauxgl.HexColor(color)
		context.DrawMesh(toMesh(m.Triangles, center, scale))
	}
	img := context.Image()
	if ss > 1 {
		img = resize.Resize(uint(v.Width), uint(v.Height), img, resize.Bilinear)
	}
	return img, nil
}

// RenderPNG draws the meshes and encodes the image as PNG.
func RenderPNG(w io.Writer, meshes []Mesh, v View) error {
	img, err := Render(meshes, v)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG draws the meshes to a PNG file.
func SavePNG(path string, meshes []Mesh, v View) error {
	img, err := Render(meshes, v)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func toMesh(model []render.Triangle3, center r3.Vec, scale float64) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, len(model))
	var p [3]fauxgl.Vector
	for _, t := range model {
		for i, v := range t.V {
			v = r3.Scale(scale, r3.Sub(v, center))
			p[i] = fauxgl.V(v.X, v.Y, v.Z)
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(p[0], p[1], p[2]))
	}
	return fauxgl.NewTriangleMesh(tris)
}
