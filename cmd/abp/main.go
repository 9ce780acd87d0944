// Package main is the entry point for the abp CLI client.
package main

import (
	"github.com/donaldgifford/airbuds-price-predictor/cmd/abp/cmd"
)

func main() {
	cmd.Execute()
}
