package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deadsy/sdfx/obj"
	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/soypat/pcbbox/form3/obj3"
	"github.com/soypat/pcbbox/render"
)

const (
	benchQuality = 200
	postHeight   = 12.
	postDiameter = 6.
	holeDepth    = 8.
	holeDiameter = 2.5
)

func BenchmarkSDFXStandoff(b *testing.B) {
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	output := filepath.Join(b.TempDir(), "sdfx_standoff.stl")
	object, err := obj.Standoff3D(&obj.StandoffParms{
		PillarHeight:   postHeight,
		PillarDiameter: postDiameter,
		HoleDepth:      holeDepth,
		HoleDiameter:   holeDiameter,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sdfxrender.ToSTL(object, benchQuality, output, &sdfxrender.MarchingCubesOctree{})
	}
}

func BenchmarkScrewPost(b *testing.B) {
	output := filepath.Join(b.TempDir(), "screw_post.stl")
	object, err := obj3.Standoff(obj3.StandoffParams{
		PillarHeight:   postHeight,
		PillarDiameter: postDiameter,
		HoleDepth:      holeDepth,
		HoleDiameter:   holeDiameter,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		oct, _ := render.NewOctreeRenderer(object, benchQuality)
		if _, err := render.CreateSTL(output, oct); err != nil {
			b.Fatal(err)
		}
	}
}
