// Package render formats predictions and failures for the terminal.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// DefaultCurrency is the prefix used when none is configured.
const DefaultCurrency = "Rs"

// Guidance is shown with every ScoringFailed warning.
const Guidance = "Please check your input values. Some combinations might lead to issues " +
	"if they are significantly outside the training data range."

// UnavailableMessage is shown when the model never loaded.
const UnavailableMessage = "The price model is not loaded, so no prediction can be made. " +
	"Check the model artifact path and restart."

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	priceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	resultPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("69")).
			Padding(0, 1)

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	failurePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Bold(true)
)

// Amount formats v with two decimals and thousands separators, rounding half
// away from zero: 1999.5 becomes "1,999.50".
func Amount(v float64) string {
	fixed := decimal.NewFromFloat(v).Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Price formats v with a currency prefix: Price("Rs", 1999.5) is
// "Rs 1,999.50". An empty prefix uses DefaultCurrency.
func Price(prefix string, v float64) string {
	if prefix == "" {
		prefix = DefaultCurrency
	}
	return prefix + " " + Amount(v)
}

// Result renders a successful prediction.
func Result(res domain.PredictionResult) string {
	body := titleStyle.Render("Predicted Price") + "\n" +
		priceStyle.Render(Price(res.Currency, res.Price))
	return resultPanel.Render(body)
}

// Message returns the plain-text user message for a prediction failure.
func Message(err error) string {
	switch {
	case errors.Is(err, predict.ErrScoringUnavailable):
		return UnavailableMessage
	case errors.Is(err, predict.ErrScoringFailed):
		return Guidance
	default:
		return "An unexpected error occurred."
	}
}

// Failure renders a prediction failure. ScoringFailed is a warning carrying
// the underlying message and Guidance; ScoringUnavailable is an error.
func Failure(err error) string {
	if err == nil {
		return ""
	}

	var body string
	if errors.Is(err, predict.ErrScoringFailed) {
		body = warnStyle.Render("An error occurred during prediction.") + "\n" +
			Message(err) + "\n" +
			detailStyle.Render(fmt.Sprintf("Details: %s", err))
	} else {
		body = errorStyle.Render("Prediction unavailable.") + "\n" +
			Message(err)
		if detail := unwrapCause(err); detail != "" {
			body += "\n" + detailStyle.Render("Details: "+detail)
		}
	}
	return failurePanel.Render(body)
}

func unwrapCause(err error) string {
	if errors.Is(err, predict.ErrScoringUnavailable) && err.Error() == predict.ErrScoringUnavailable.Error() {
		return ""
	}
	return err.Error()
}

// HelpGuide lists each field's label and help text.
func HelpGuide(specs []domain.FeatureSpec) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Feature Guide"))
	b.WriteByte('\n')
	for _, s := range specs {
		b.WriteString(labelStyle.Render(s.Label))
		b.WriteString(": ")
		b.WriteString(s.Help)
		b.WriteByte('\n')
	}
	return b.String()
}
