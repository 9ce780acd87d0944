package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
)

func fieldsCmd() *cobra.Command {
	fieldsRoot := &cobra.Command{
		Use:   "fields",
		Short: "Browse the input fields",
		Long: "Show the fourteen specification fields the price model takes, with\n" +
			"their accepted values, defaults, and help text.",
	}

	fieldsRoot.AddCommand(
		fieldsListCmd(),
		fieldsGetCmd(),
		fieldsGuideCmd(),
	)

	return fieldsRoot
}

func fieldsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all fields",
		Example: `  abp fields list
  abp fields list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs, err := newClient().ListFields(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), specs)
			}
			return printFieldsTable(cmd.OutOrStdout(), specs)
		},
	}
}

func fieldsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show field details",
		Example: `  abp fields get "Driver Size"
  abp fields get "Battery - Playtime" --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := newClient().GetField(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), spec)
			}
			return printFieldDetail(cmd.OutOrStdout(), spec)
		},
	}
}

func fieldsGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Print the feature guide",
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs, err := newClient().ListFields(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.HelpGuide(specs))
			return err
		},
	}
}
