package pcbbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/soypat/pcbbox/helpers/matter"
	"github.com/soypat/pcbbox/render"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultResolution is the number of mesh cells along the longest side of
// a part when GenerateConfig leaves it unset.
const DefaultResolution = 200

// GenerateConfig controls STL generation.
type GenerateConfig struct {
	// Dir is the output directory. It is created if missing.
	Dir string
	// Parts to render. Defaults to box and lid.
	Parts []Part
	// Resolution is the number of mesh cells along a part's longest side.
	Resolution int
	// ASCII writes ASCII STL instead of binary.
	ASCII bool
	// Logger receives progress. nil discards it.
	Logger *zerolog.Logger
}

// Output describes one written STL file.
type Output struct {
	Part      Part          `yaml:"part"`
	Path      string        `yaml:"path"`
	Triangles int           `yaml:"triangles"`
	Duration  time.Duration `yaml:"duration"`
	Bounds    r3.Box        `yaml:"bounds"`
}

// Result is the outcome of Generate. Outputs are in the order of the
// requested parts.
type Result struct {
	Outputs []Output `yaml:"outputs"`
}

// Generate renders the requested parts concurrently and writes one STL
// file per part. The first failing part cancels the others.
func Generate(ctx context.Context, l Layout, cfg GenerateConfig) (Result, error) {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	parts := cfg.Parts
	if len(parts) == 0 {
		parts = []Part{PartBox, PartLid}
	}
	res := cfg.Resolution
	if res == 0 {
		res = DefaultResolution
	}
	if res < 2 {
		return Result{}, fmt.Errorf("resolution must be at least 2, got %d", res)
	}
	mat, err := matter.Lookup(l.Params.Material.Name)
	if err != nil {
		return Result{}, err
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return Result{}, err
		}
	}
	for _, adj := range l.Adjustments {
		log.Warn().Msg(adj)
	}

	outputs := make([]Output, len(parts))
	g, ctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			plog := log.With().Str("part", string(part)).Logger()
			start := time.Now()
			model, err := BuildPart(l, part)
			if err != nil {
				return fmt.Errorf("building %s: %w", part, err)
			}
			if l.Params.Material.CompensateShrink {
				model = mat.Scale(model)
				plog.Debug().Stringer("material", mat).Msg("shrink compensation applied")
			}
			oct, err := render.NewOctreeRenderer(model, res)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", part, err)
			}
			path := filepath.Join(cfg.Dir, string(part)+".stl")
			plog.Debug().Int("resolution", res).Str("path", path).Msg("rendering")
			nt, err := writePart(path, part, render.WithContext(ctx, oct), cfg.ASCII)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", part, err)
			}
			stats := oct.Stats()
			outputs[i] = Output{
				Part:      part,
				Path:      path,
				Triangles: nt,
				Duration:  time.Since(start),
				Bounds:    model.Bounds(),
			}
			plog.Info().
				Int("triangles", nt).
				Int("cells", stats.Cubes).
				Int("evaluations", stats.Evaluated).
				Dur("took", outputs[i].Duration).
				Msg("wrote STL")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Outputs: outputs}, nil
}

func writePart(path string, part Part, r render.Renderer, ascii bool) (int, error) {
	if !ascii {
		return render.CreateSTL(path, r)
	}
	model, err := render.RenderAll(r)
	if err != nil {
		return 0, err
	}
	fp, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	if err = render.WriteASCII(fp, string(part), model); err != nil {
		return 0, err
	}
	return len(model), fp.Close()
}
