// Package main is the entry point for the airbuds-price-predictor server.
package main

import (
	"os"

	"github.com/donaldgifford/airbuds-price-predictor/cmd/airbuds-price-predictor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
