package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/soypat/pcbbox/render"
	"github.com/spf13/cobra"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.stl...",
		Short: "Print triangle count, bounds and volume of STL files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tSOLID\tTRIANGLES\tSIZE\tVOLUME\tVALID")
			for _, path := range args {
				name, model, err := render.ReadSTL(path)
				if err != nil {
					return err
				}
				bb := render.Bounds(model)
				valid := "yes"
				if err := render.Validate(model); err != nil {
					valid = "no"
					a.log.Warn().Str("file", path).Err(err).Msg("invalid mesh")
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2f x %.2f x %.2f\t%.1f\t%s\n",
					path, name, len(model),
					bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y, bb.Max.Z-bb.Min.Z,
					render.Volume(model), valid)
			}
			return w.Flush()
		},
	}
}
