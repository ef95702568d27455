package render

import (
	"errors"
	"io"
	"math"
	"sync"

	"github.com/soypat/pcbbox/internal/d3"
	"github.com/soypat/pcbbox/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Octree renders an SDF3 with marching tetrahedra over octree space sampling.
// Empty octree cells are discarded early using the SDF distance at the
// cell center so only cells near the surface are ever marched.
type Octree struct {
	dc        dc3
	todo      []cube
	unwritten triangle3Buffer
	// statistics, exposed through Stats.
	cubes     int
	triangles int
}

type cube struct {
	sdf.V3i      // origin of cube as integers
	n       uint // level of cube, size = 1 << n
}

// OctreeStats summarizes the work done by an Octree renderer.
type OctreeStats struct {
	Resolution float64 // side of the marched cells
	Levels     uint
	Cubes      int // cells marched
	Triangles  int
	Evaluated  int // distinct SDF evaluations
}

// NewOctreeRenderer returns an Octree renderer for s. meshCells is the number
// of cells along the longest side of the bounding box.
func NewOctreeRenderer(s sdf.SDF3, meshCells int) (*Octree, error) {
	if s == nil {
		return nil, errors.New("nil SDF3")
	}
	if meshCells < 2 {
		return nil, errors.New("meshCells must be 2 or larger")
	}
	// Scale the bounding box about the center to make sure the boundaries
	// aren't on the object surface.
	bb := d3.Box(s.Bounds())
	if d3.LTEZero(bb.Size()) {
		return nil, errors.New("SDF3 has empty bounds")
	}
	bb = bb.ScaleAboutCenter(1.01)
	longAxis := d3.Max(bb.Size())
	// The level 1 cube spans two sample steps, so sample at half the
	// requested cell size to keep the marched cells at meshCells.
	resolution := 0.5 * longAxis / float64(meshCells)

	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	divisions := r3.Scale(1/resolution, bb.Size())
	maxCubes := int(divisions.X) * int(divisions.Y) * int(divisions.Z)

	cubes := make([]cube, 1, max(1, maxCubes/64))
	cubes[0] = cube{sdf.V3i{0, 0, 0}, levels - 1} // process the octree, start at the top level
	return &Octree{
		dc:        *newDc3(s, bb.Min, resolution, levels),
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		todo:      cubes,
	}, nil
}

// ReadTriangles writes triangles rendered from the model into the argument buffer.
// returns number of triangles written and an error if present.
func (oc *Octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		// Done rendering model.
		return n, io.EOF
	}
	n += oc.readTriangles(dst[n:])
	return n, nil
}

// Stats returns rendering statistics gathered so far.
func (oc *Octree) Stats() OctreeStats {
	return OctreeStats{
		Resolution: 2 * oc.dc.resolution,
		Levels:     uint(len(oc.dc.hdiag)),
		Cubes:      oc.cubes,
		Triangles:  oc.triangles,
		Evaluated:  oc.dc.len(),
	}
}

// readTriangles processes pending cubes until dst is full.
func (oc *Octree) readTriangles(dst []Triangle3) (n int) {
	cubesProcessed := 0
	var newCubes []cube
	for _, c := range oc.todo {
		if n == len(dst) {
			break
		}
		if n+marchingTetraMaxTriangles > len(dst) {
			// Not enough room in dst for a worst case cube, buffer the excess.
			var tmp [marchingTetraMaxTriangles]Triangle3
			tri, cubes := oc.processCube(tmp[:], c)
			written := copy(dst[n:], tmp[:tri])
			oc.unwritten.Write(tmp[written:tri])
			n += written
			newCubes = append(newCubes, cubes...)
			cubesProcessed++
			break
		}
		tri, cubes := oc.processCube(dst[n:], c)
		newCubes = append(newCubes, cubes...)
		cubesProcessed++
		n += tri
	}
	// The consumed head of todo is released on the next append growth.
	oc.todo = append(oc.todo[cubesProcessed:], newCubes...)
	return n
}

// processCube generates triangles for a level 1 cube or the non empty
// sub cubes of a larger one.
func (oc *Octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.n == 1 {
		var corners [8]r3.Vec
		var values [8]float64
		for i, off := range cornerOffsets {
			corners[i], values[i] = oc.dc.Evaluate(c.Add(off))
		}
		writtenTriangles = mtToTriangles(dst, &corners, &values)
		oc.cubes++
		oc.triangles += writtenTriangles
		return writtenTriangles, nil
	}
	n := c.n - 1
	s := 1 << n
	for _, off := range cornerOffsets {
		candidate := cube{c.Add(sdf.V3i{off[0] / 2 * s, off[1] / 2 * s, off[2] / 2 * s}), n}
		if !oc.dc.IsEmpty(&candidate) {
			newCubes = append(newCubes, candidate)
		}
	}
	return 0, newCubes
}

// cornerOffsets are the corners of a level 1 cube in sample units.
var cornerOffsets = [8]sdf.V3i{
	{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0},
	{0, 0, 2}, {2, 0, 2}, {2, 2, 2}, {0, 2, 2},
}

// dc3 is a 3 dimensional distance cache. Neighbouring cells share corners
// so most evaluations are cache hits.
type dc3 struct {
	mu         sync.Mutex          // lock the the cache during reads/writes
	cache      map[sdf.V3i]float64 // cache of distances
	origin     r3.Vec              // origin of the overall bounding cube
	resolution float64             // size of smallest octree cube
	hdiag      []float64           // lookup table of cube half diagonals
	s          sdf.SDF3            // the SDF3 to be rendered
}

// Evaluate returns the position of integer point vi and the SDF distance there.
func (dc *dc3) Evaluate(vi sdf.V3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.ToV3()))
	dist, found := dc.read(vi)
	if found {
		return v, dist
	}
	dist = dc.s.Evaluate(v)
	dc.write(vi, dist)
	return v, dist
}

// IsEmpty returns true if the cube contains no SDF surface
func (dc *dc3) IsEmpty(c *cube) bool {
	// evaluate the SDF3 at the center of the cube
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.AddScalar(s))
	// compare to the center/corner distance
	return math.Abs(d) >= dc.hdiag[c.n]
}

func newDc3(s sdf.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[sdf.V3i]float64),
	}
	// build a lut for cube half diagonal lengths
	for i := range dc.hdiag {
		si := 1 << uint(i)
		s := float64(si) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*s*s)
	}
	return &dc
}

func (dc *dc3) read(vi sdf.V3i) (float64, bool) {
	dc.mu.Lock()
	dist, found := dc.cache[vi]
	dc.mu.Unlock()
	return dist, found
}

func (dc *dc3) write(vi sdf.V3i, dist float64) {
	dc.mu.Lock()
	dc.cache[vi] = dist
	dc.mu.Unlock()
}

func (dc *dc3) len() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.cache)
}
