package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"planviewer/internal/viewer/summary"
)

func newSummaryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary [plan.json]",
		Short: "Describe a plan: size, scale, elements, zones and placed objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(cmd, args)
			if err != nil {
				return err
			}

			s := summary.Build(plan)
			if asJSON {
				data, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", append(data, '\n'))
			}
			return writeOutput(cmd, "", []byte(s.String()+"\n"))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
