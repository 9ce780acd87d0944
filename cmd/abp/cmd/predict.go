package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/airbuds-price-predictor/internal/api/client"
	"github.com/donaldgifford/airbuds-price-predictor/internal/form"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

func normalizeCmd() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Show how raw specifications are normalized",
		Long: "Sends raw field values to the server and shows the encoding the model\n" +
			"would receive. Values that were not recognized are marked.",
		Example: `  abp normalize --set "Playtime=3-4 Hrs" --set "Charging Interface=USB-C"
  abp normalize --set "Bluetooth Range=30ft" --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := form.ParseAssignments(set)
			if err != nil {
				return err
			}
			resp, err := newClient().Normalize(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			return printNormalizedTable(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "field value as name=value (repeatable)")

	return cmd
}

func predictCmd() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a price from field values",
		Long: "Sends field values to the server and prints the predicted price.\n" +
			"Fields that are not set use their fallback value.",
		Example: `  abp predict --set "Driver Size=13mm" --set "Noise Cancellation=ANC"
  abp predict --set "Playtime=6 Hrs" --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := form.ParseAssignments(set)
			if err != nil {
				return err
			}
			return submit(cmd, raw)
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "field value as name=value (repeatable)")

	return cmd
}

// submit requests a prediction and prints it, rendering prediction failures
// the same way the server describes them.
func submit(cmd *cobra.Command, raw domain.RawRecord) error {
	resp, err := newClient().Predict(cmd.Context(), raw)
	return showPrediction(cmd.OutOrStdout(), cmd.ErrOrStderr(), resp, err)
}

func showPrediction(out, errOut io.Writer, resp *apiclient.PredictResponse, err error) error {
	if err != nil {
		if errors.Is(err, predict.ErrScoringUnavailable) || errors.Is(err, predict.ErrScoringFailed) {
			fmt.Fprintln(errOut, render.Failure(err))
		}
		return err
	}
	if jsonOutput() {
		return outputJSON(out, resp)
	}
	return printPrediction(out, resp)
}
