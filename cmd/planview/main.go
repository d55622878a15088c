package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"planviewer/internal/common/logging"
	"planviewer/internal/viewer/models"
	"planviewer/internal/viewer/schema"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "planview",
		Short: "Inspect, convert and render floor-plan documents",
		Long: `planview works with floor-plan JSON documents offline: it validates them,
prints summaries, converts annotated SVG floor plans into plan documents and renders
top-down SVG or scene-graph JSON frames.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Options{Level: logLevel})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newRenderCmd(), newSummaryCmd(), newImportCmd(), newValidateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readInput reads a file argument; "-" or no argument means stdin.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func readPlan(cmd *cobra.Command, args []string) (models.PlanDocument, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return models.PlanDocument{}, err
	}
	return schema.Decode(data)
}

// writeOutput writes to --out when set, otherwise to stdout.
func writeOutput(cmd *cobra.Command, out string, data []byte) error {
	if out == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
