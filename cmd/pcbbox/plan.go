package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/soypat/pcbbox"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// plan is the YAML form of a derived layout.
type plan struct {
	Layout       pcbbox.Layout        `yaml:"layout"`
	Perforations []pcbbox.Perforation `yaml:"perforations,omitempty"`
	Cutouts      []pcbbox.Cutout      `yaml:"cutouts,omitempty"`
}

func (a *app) planCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the derived enclosure layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, l, err := a.loadLayout()
			if err != nil {
				return err
			}
			for _, adj := range l.Adjustments {
				a.log.Warn().Msg(adj)
			}
			if asYAML {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(plan{Layout: l, Perforations: l.Perforations(), Cutouts: l.Cutouts()}); err != nil {
					return err
				}
				return enc.Close()
			}
			return printPlan(cmd.OutOrStdout(), l)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of a table")
	return cmd
}

func printPlan(out io.Writer, l pcbbox.Layout) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	row := func(name, format string, args ...interface{}) {
		fmt.Fprintf(w, "%s\t%s\n", name, fmt.Sprintf(format, args...))
	}
	fmt.Fprintln(w, "DIMENSION\tVALUE")
	row("outer size", "%.2f x %.2f x %.2f", l.Length, l.Width, l.Depth)
	row("inner size", "%.2f x %.2f", l.InnerLength, l.InnerWidth)
	row("padding", "x %.2f, y %.2f", l.XPadding, l.YPadding)
	row("forbidden", "x %.2f, y %.2f, z %.2f", l.XForbidden, l.YForbidden, l.ZForbidden)
	row("rounding radius", "%.2f", l.RoundingRadius)
	row("posts", "%d, length %.2f, radius %.2f", len(l.Posts), l.PostLength, l.PostRadius)
	for i, p := range l.Posts {
		row(fmt.Sprintf("  post %d", i), "%.2f, %.2f", p.X, p.Y)
	}
	row("lid", "thickness %.2f, rim height %.2f", l.LidThickness, l.RimHeight)
	row("rim", "outer %.2f x %.2f, inner %.2f x %.2f", l.RimOuter.X, l.RimOuter.Y, l.RimInner.X, l.RimInner.Y)
	row("holes", "bolt %.2f, head %.2f, vent %.2f", l.BoltHole, l.HeadHole, l.VentHole)
	if l.Params.Mounting.Mounts {
		row("mount tabs", "width %.2f, slot %.2f x %.2f", l.MountTabWidth, l.SlotSize.X, l.SlotSize.Y)
	}
	for _, p := range l.Perforations() {
		row("vents "+string(p.Face), "%d x %d (+%d staggered), pitch %.2f",
			p.LCount, p.WCount, len(p.Holes())-p.LCount*p.WCount, p.Distance)
	}
	for _, c := range l.Cutouts() {
		row(string(c.Kind)+" "+string(c.Face), "at %.2f, %.2f", c.Center.X, c.Center.Y)
	}
	return w.Flush()
}
