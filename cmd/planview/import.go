package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"planviewer/internal/viewer/importer"
)

func newImportCmd() *cobra.Command {
	var (
		scale   float64
		ceiling float64
		join    float64
		out     string
	)

	cmd := &cobra.Command{
		Use:   "import [floor.svg]",
		Short: "Convert an annotated SVG floor plan into a plan document",
		Long: `Reads an SVG whose shapes are tagged by id (Wall_*, Door_*, Window_*, Room_*, Balcony*)
and writes the equivalent plan document as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale <= 0 {
				return fmt.Errorf("--scale must be positive")
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			opts := []importer.Option{importer.WithScale(scale), importer.WithWallJoin(join)}
			if ceiling > 0 {
				opts = append(opts, importer.WithCeilingHeight(ceiling))
			}
			plan, err := importer.New(opts...).Import(bytes.NewReader(data))
			if err != nil {
				return err
			}
			slog.Info("[IMPORT] svg converted", "elements", len(plan.Elements))

			doc, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, append(doc, '\n'))
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 100, "pixels per meter")
	cmd.Flags().Float64Var(&ceiling, "ceiling", 0, "ceiling height in meters (omitted when 0)")
	cmd.Flags().Float64Var(&join, "join", 0, "merge wall ends closer than this many drawing units into corners")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
