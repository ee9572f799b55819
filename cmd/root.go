// Package cmd implements the arbor command line interface.
package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

const Version = "v0.1.0"

var rootCmd = &cobra.Command{
	Use:     "arbor",
	Version: Version,
	Short:   "rooted weighted trees: newick IO, distance queries, neighbor joining",
	Long: `arbor maintains rooted, weighted phylogenetic-style trees.

It reads and writes newick (and nexus) tree files, computes pairwise
patristic distance matrices over a tree's leaves, collapses negligible or
redundant branches, reroots trees, and reconstructs trees from distance
matrices with neighbor joining.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits with an error message on failure.
func Execute() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("arbor encountered an error :: %s\n", err)
	}
}
