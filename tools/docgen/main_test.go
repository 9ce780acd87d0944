package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "abp", Short: "root"}
	root.AddCommand(&cobra.Command{Use: "predict", Short: "Predict a price", Run: func(*cobra.Command, []string) {}})

	dir := filepath.Join(t.TempDir(), "abp")
	require.NoError(t, generate(root, dir))

	data, err := os.ReadFile(filepath.Join(dir, "abp_predict.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Predict a price")
	assert.NotContains(t, string(data), "Auto generated")
}
