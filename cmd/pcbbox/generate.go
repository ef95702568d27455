package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/soypat/pcbbox"
	"github.com/soypat/pcbbox/manifest"
	"github.com/spf13/cobra"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		out        string
		resolution int
		parts      []string
		ascii      bool
		noManifest bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write box, lid and assembly STL files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := a.loadLayout()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.Render.OutputDir = out
			}
			if flags.Changed("resolution") {
				cfg.Render.Resolution = resolution
			}
			if flags.Changed("parts") {
				cfg.Render.Parts = parts
			}
			if flags.Changed("ascii") {
				cfg.Render.ASCII = ascii
			}
			gcfg, err := cfg.GenerateConfig(&a.log)
			if err != nil {
				return err
			}
			res, err := pcbbox.Generate(cmd.Context(), l, gcfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PART\tFILE\tTRIANGLES\tTIME")
			for _, o := range res.Outputs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", o.Part, o.Path, o.Triangles, o.Duration.Round(time.Millisecond))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if noManifest {
				return nil
			}
			m := manifest.New(a.configPath, l, res)
			path := filepath.Join(cfg.Render.OutputDir, "manifest.yaml")
			if err := manifest.WriteFile(path, m); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}
			a.log.Info().Str("path", path).Str("run_id", m.RunID).Msg("wrote manifest")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", ".", "output directory")
	f.IntVarP(&resolution, "resolution", "r", pcbbox.DefaultResolution, "mesh cells along the longest side of a part")
	f.StringSliceVar(&parts, "parts", nil, "parts to render: box, lid, assembly")
	f.BoolVar(&ascii, "ascii", false, "write ASCII STL")
	f.BoolVar(&noManifest, "no-manifest", false, "do not write manifest.yaml")
	return cmd
}
