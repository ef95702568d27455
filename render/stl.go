package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"
)

const stlTriangleSize = 50

// CreateSTL streams the triangles of r into a binary STL file at path and
// returns the number of triangles written. The header triangle count is
// patched once rendering finishes.
func CreateSTL(path string, r Renderer) (int, error) {
	const sizeOfSTLHeader = 84
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	// Header is written last, once the triangle count is known.
	if _, err = file.Seek(sizeOfSTLHeader, io.SeekStart); err != nil {
		return 0, err
	}
	rd := &stlReader{r: r}
	n, err := io.CopyBuffer(file, rd, make([]byte, stlTriangleSize*trianglesInBuffer))
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	nt := int(n / stlTriangleSize)
	header := stlHeader{Count: uint32(nt)}
	if err = binary.Write(file, binary.LittleEndian, &header); err != nil {
		return 0, err
	}
	return nt, file.Close()
}

// WriteSTL writes model triangles to a writer in binary STL file format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	bw := bufio.NewWriter(w)
	header := stlHeader{Count: uint32(len(model))}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return err
	}
	var b [stlTriangleSize]byte
	for _, triangle := range model {
		toSTLTriangle(triangle).put(b[:])
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteASCII writes model triangles to a writer in ASCII STL file format.
func WriteASCII(w io.Writer, name string, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	solid := stl.Solid{
		Name:      name,
		IsAscii:   true,
		Triangles: make([]stl.Triangle, len(model)),
	}
	for i, t := range model {
		d := toSTLTriangle(t)
		solid.Triangles[i] = stl.Triangle{
			Normal:   stl.Vec3(d.Normal),
			Vertices: [3]stl.Vec3{d.Vertex1, d.Vertex2, d.Vertex3},
		}
	}
	return solid.WriteAll(w)
}

// ReadSTL reads an ASCII or binary STL file.
func ReadSTL(path string) (name string, model []Triangle3, err error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	model = make([]Triangle3, len(solid.Triangles))
	for i, t := range solid.Triangles {
		model[i] = Triangle3{V: [3]r3.Vec{
			r3From3F32(t.Vertices[0]),
			r3From3F32(t.Vertices[1]),
			r3From3F32(t.Vertices[2]),
		}}
	}
	return solid.Name, model, nil
}

// ErrNormalMismatch is returned by Validate when a triangle's stored normal
// disagrees with its vertex winding. High resolution meshes with tiny
// triangles may trigger it after float32 rounding.
var ErrNormalMismatch = errors.New("triangle normal not approximately equal to normal calculated from vertices")

// Validate checks that a mesh survives float32 STL encoding: no NaN or Inf
// vertices and no degenerate triangles.
func Validate(model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty mesh")
	}
	mismatches := 0
	for i, t := range model {
		if isBad(t.V[0]) || isBad(t.V[1]) || isBad(t.V[2]) {
			return fmt.Errorf("triangle %d: inf/NaN vertex", i)
		}
		err := toSTLTriangle(t).validate()
		if errors.Is(err, ErrNormalMismatch) {
			mismatches++
			continue
		}
		if err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d/%d triangles: %w", mismatches, len(model), ErrNormalMismatch)
	}
	return nil
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

const trianglesInBuffer = 1 << 10

// stlReader adapts a Renderer to an io.Reader of binary STL triangles.
type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]Triangle3
}

func (w *stlReader) Read(b []byte) (int, error) {
	ntMax := min(len(b)/stlTriangleSize, len(w.buf))
	if ntMax == 0 {
		return 0, io.ErrShortBuffer
	}
	var (
		err error
		it  int // Number of triangles written to byte buffer
		nt  int // number of triangles read during ReadTriangles
	)
	for it < ntMax && err == nil {
		nt, err = w.r.ReadTriangles(w.buf[:ntMax-it])
		for _, triangle := range w.buf[:nt] {
			toSTLTriangle(triangle).put(b[it*stlTriangleSize:])
			it++
		}
	}
	return it * stlTriangleSize, err
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func toSTLTriangle(t Triangle3) (d stlTriangle) {
	d.Normal = f32From(t.Normal())
	d.Vertex1 = f32From(t.V[0])
	d.Vertex2 = f32From(t.V[1])
	d.Vertex3 = f32From(t.V[2])
	return d
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func (t stlTriangle) validate() error {
	const epsilon = 1e-12
	const normTol = 5e-2
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.degenerate(epsilon) {
		return errors.New("triangle is degenerate")
	}
	calc := t.normalFromVertices()
	calcNeg := [3]float32{-calc[0], -calc[1], -calc[2]}
	if !equalWithin3F32(calc, t.Normal, normTol) && !equalWithin3F32(calcNeg, t.Normal, normTol) {
		return ErrNormalMismatch
	}
	return nil
}

func (t stlTriangle) normalFromVertices() [3]float32 {
	v1 := r3From3F32(t.Vertex1)
	e1 := r3.Sub(r3From3F32(t.Vertex2), v1)
	e2 := r3.Sub(r3From3F32(t.Vertex3), v1)
	return f32From(r3.Unit(r3.Cross(e1, e2)))
}

// degenerate returns true if two vertices coincide after float32 rounding.
func (t stlTriangle) degenerate(tol float32) bool {
	return equalWithin3F32(t.Vertex1, t.Vertex2, tol) ||
		equalWithin3F32(t.Vertex2, t.Vertex3, tol) ||
		equalWithin3F32(t.Vertex3, t.Vertex1, tol)
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func f32From(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
