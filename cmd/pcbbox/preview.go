package main

import (
	"fmt"

	"github.com/soypat/pcbbox"
	"github.com/soypat/pcbbox/preview"
	"github.com/soypat/pcbbox/render"
	"github.com/soypat/pcbbox/sdf"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// defaultPreviewResolution is coarser than STL output, previews only
// need the silhouette.
const defaultPreviewResolution = 80

func (a *app) previewCmd() *cobra.Command {
	var (
		out        string
		resolution int
		width      int
		height     int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a shaded PNG of the box and lid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := a.loadLayout()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("out") {
				out = cfg.Render.Preview
			}
			box, err := pcbbox.BuildBox(l)
			if err != nil {
				return err
			}
			lid, err := pcbbox.BuildLid(l)
			if err != nil {
				return err
			}
			meshes := []preview.Mesh{
				{Color: preview.BoxColor},
				{Color: preview.LidColor},
			}
			models := []sdf.SDF3{box, sdf.Translate(lid, r3.Vec{Y: l.AssemblyOffset})}
			g, ctx := errgroup.WithContext(cmd.Context())
			for i := range models {
				i := i
				g.Go(func() error {
					oct, err := render.NewOctreeRenderer(models[i], resolution)
					if err != nil {
						return err
					}
					meshes[i].Triangles, err = render.RenderAll(render.WithContext(ctx, oct))
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return fmt.Errorf("meshing preview: %w", err)
			}
			v := preview.DefaultView()
			v.Width, v.Height = width, height
			if err := preview.SavePNG(out, meshes, v); err != nil {
				return err
			}
			a.log.Info().Str("path", out).Msg("wrote preview")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "preview.png", "PNG file, defaults to render.preview of the config")
	f.IntVarP(&resolution, "resolution", "r", defaultPreviewResolution, "mesh cells along the longest side of a part")
	f.IntVar(&width, "width", preview.DefaultView().Width, "image width in pixels")
	f.IntVar(&height, "height", preview.DefaultView().Height, "image height in pixels")
	return cmd
}
