package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/airbuds-price-predictor/internal/form"
)

func formCmd() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Enter specifications interactively and predict a price",
		Long: "Fetches the field list from the server, shows a form with every field\n" +
			"pre-filled with its default, and predicts a price from the answers.",
		Example: `  abp form
  abp form --set "Driver Size=13"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !form.Interactive() {
				return errors.New("abp form needs a terminal; use abp predict --set name=value instead")
			}

			seed, err := form.ParseAssignments(set)
			if err != nil {
				return err
			}

			specs, err := newClient().ListFields(cmd.Context())
			if err != nil {
				return err
			}

			raw, err := form.New(specs, seed).Run(cmd.Context())
			if err != nil {
				return err
			}
			return submit(cmd, raw)
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "pre-fill a field as name=value (repeatable)")

	return cmd
}
