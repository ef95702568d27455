package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/pcbbox"
	"github.com/soypat/pcbbox/drawing"
	"github.com/spf13/cobra"
)

var faceFiles = map[pcbbox.Face]string{
	pcbbox.FaceXPos: "xpos",
	pcbbox.FaceXNeg: "xneg",
	pcbbox.FaceYPos: "ypos",
	pcbbox.FaceYNeg: "yneg",
	pcbbox.FaceZPos: "zpos",
	pcbbox.FaceZNeg: "zneg",
}

func (a *app) drawingCmd() *cobra.Command {
	var (
		out    string
		format string
		faces  []string
	)
	cmd := &cobra.Command{
		Use:   "drawing",
		Short: "Write DXF and PDF drawings and per face hole plots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, l, err := a.loadLayout()
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if format != "png" && format != "svg" && format != "pdf" {
				return fmt.Errorf("unsupported plot format %q", format)
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}

			dxfPath := filepath.Join(out, "enclosure.dxf")
			if err := drawing.WriteDXF(dxfPath, l); err != nil {
				return fmt.Errorf("writing DXF: %w", err)
			}
			a.log.Info().Str("path", dxfPath).Msg("wrote drawing")

			pdfPath := filepath.Join(out, "enclosure.pdf")
			if err := writeFile(pdfPath, func(fp *os.File) error { return drawing.WritePDF(fp, l) }); err != nil {
				return fmt.Errorf("writing PDF: %w", err)
			}
			a.log.Info().Str("path", pdfPath).Msg("wrote dimension sheet")

			for _, s := range faces {
				face, err := pcbbox.ParseFace(s)
				if err != nil {
					return err
				}
				path := filepath.Join(out, "face_"+faceFiles[face]+"."+format)
				err = writeFile(path, func(fp *os.File) error {
					return drawing.WriteFacePlot(fp, l, face, format)
				})
				if err != nil {
					return fmt.Errorf("plotting face %s: %w", face, err)
				}
				a.log.Debug().Str("path", path).Msg("wrote face plot")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", ".", "output directory")
	f.StringVar(&format, "format", "png", "face plot format: png, svg or pdf")
	f.StringSliceVar(&faces, "faces", []string{">X", ">Y", ">Z"}, "faces to plot")
	return cmd
}

// writeFile creates path and closes it after write, reporting the first
// error.
func writeFile(path string, write func(*os.File) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := write(fp); err != nil {
		return err
	}
	return fp.Close()
}
