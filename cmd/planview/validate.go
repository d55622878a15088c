package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"planviewer/internal/viewer/schema"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plan.json]",
		Short: "Check a plan document against the plan schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			err = schema.Validate(data)
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", p)
				}
				return fmt.Errorf("%d schema problem(s)", len(verr.Problems))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
