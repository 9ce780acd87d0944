package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/airbuds-price-predictor/internal/config"
	"github.com/donaldgifford/airbuds-price-predictor/internal/engine"
	"github.com/donaldgifford/airbuds-price-predictor/internal/form"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/logger"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/model"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

type predictOptions struct {
	set        []string
	modelPath  string
	jsonOutput bool
	guide      bool
}

type predictJSON struct {
	Price      float64                 `json:"price"`
	Currency   string                  `json:"currency"`
	Formatted  string                  `json:"formatted"`
	Backend    string                  `json:"backend"`
	Normalized domain.NormalizedRecord `json:"normalized"`
	Degraded   []domain.FieldName      `json:"degraded,omitempty"`
	Ignored    []string                `json:"ignored,omitempty"`
	OutOfRange []domain.FieldName      `json:"out_of_range,omitempty"`
}

func init() {
	rootCmd.AddCommand(predictCommand())
}

func predictCommand() *cobra.Command {
	var opts predictOptions

	c := &cobra.Command{
		Use:   "predict",
		Short: "Predict a price without running the server",
		Long: "Loads the model, normalizes the given field values, and prints the\n" +
			"predicted price. Fields that are not set use their form default.",
		Example: `  airbuds-price-predictor predict --set "Driver Size=13mm" --set "Noise Cancellation=ANC"
  airbuds-price-predictor predict --model models/best_airbuds_price_predictor.yaml --json
  airbuds-price-predictor predict --guide`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if opts.modelPath != "" {
				cfg.Model.Backend = model.BackendPipeline
				cfg.Model.Path = opts.modelPath
			}
			log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
			return runPredict(cmd.Context(), cmd.OutOrStdout(), cfg, log, opts)
		},
	}

	c.Flags().StringArrayVar(&opts.set, "set", nil, "field value as name=value (repeatable)")
	c.Flags().StringVar(&opts.modelPath, "model", "", "pipeline artifact path (overrides config)")
	c.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON")
	c.Flags().BoolVar(&opts.guide, "guide", false, "print the feature guide first")

	return c
}

func runPredict(
	ctx context.Context,
	w io.Writer,
	cfg *config.Config,
	log *slog.Logger,
	opts predictOptions,
) error {
	if opts.guide {
		fmt.Fprintln(w, render.HelpGuide(schema.Features()))
	}

	raw, err := form.ParseAssignments(opts.set)
	if err != nil {
		return err
	}
	// Unset fields take the value the form would have submitted.
	rec := schema.Defaults()
	for k, v := range raw {
		rec[k] = v
	}

	p := openPredictor(ctx, cfg)
	eng := engine.NewEngine(p,
		engine.WithLogger(log),
		engine.WithCurrency(cfg.Display.Currency),
	)

	est, err := eng.Estimate(ctx, rec)
	if err != nil {
		fmt.Fprintln(w, render.Failure(err))
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(predictJSON{
			Price:      est.Result.Price,
			Currency:   est.Result.Currency,
			Formatted:  render.Price(est.Result.Currency, est.Result.Price),
			Backend:    est.Result.Backend,
			Normalized: est.Normalized,
			Degraded:   est.Report.Degraded,
			Ignored:    est.Report.Ignored,
			OutOfRange: schema.OutOfRange(est.Normalized),
		})
	}

	fmt.Fprintln(w, render.Result(est.Result))
	if len(est.Report.Degraded) > 0 {
		fmt.Fprintf(w, "Unrecognized values treated as unknown: %s\n", joinFields(est.Report.Degraded))
	}
	if len(est.Report.Ignored) > 0 {
		fmt.Fprintf(w, "Ignored unknown fields: %s\n", strings.Join(est.Report.Ignored, ", "))
	}
	return nil
}

// openPredictor loads the model for a one-shot prediction. A load failure
// yields an Unavailable predictor so the failure is rendered like any other.
func openPredictor(ctx context.Context, cfg *config.Config) *predict.Predictor {
	scorer, err := model.Open(ctx, model.Options{
		Backend:  cfg.Model.Backend,
		Path:     cfg.Model.Path,
		Endpoint: cfg.Model.HTTP.Endpoint,
		Timeout:  cfg.Model.HTTP.Timeout,
	})
	if err != nil {
		return predict.NewUnavailable(err)
	}
	return predict.New(scorer)
}

func joinFields(names []domain.FieldName) string {
	labels := make([]string, len(names))
	for i, n := range names {
		labels[i] = n.Label()
	}
	return strings.Join(labels, ", ")
}
