// Package main generates CLI reference documentation for the abp client and
// the airbuds-price-predictor server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	abp "github.com/donaldgifford/airbuds-price-predictor/cmd/abp/cmd"
	server "github.com/donaldgifford/airbuds-price-predictor/cmd/airbuds-price-predictor/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	roots := map[string]*cobra.Command{
		"abp":    abp.Root(),
		"server": server.Root(),
	}

	for dir, root := range roots {
		if err := generate(root, filepath.Join(*output, dir)); err != nil {
			log.Fatalf("generating %s docs: %v", dir, err)
		}
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}

func generate(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTree(root, dir)
}
