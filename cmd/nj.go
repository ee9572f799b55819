package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"arbor/internal/newick"
	"arbor/internal/nj"
	"arbor/internal/prep"
)

var njCmd = &cobra.Command{
	Use:   "nj <matrix.csv>",
	Short: "reconstruct a tree from a distance matrix with neighbor joining",
	Long: `Reads a CSV distance matrix (taxon labels as header row, one row of
pairwise distances per taxon) and prints the neighbor-joining tree as
newick.

example:

  arbor nj dists.csv > tree.nwk 2> log.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dists, labels, err := prep.ReadMatrixFile(args[0])
		if err != nil {
			return err
		}
		log.Printf("joining %d taxa...", len(labels))
		root, err := nj.Join(dists, labels)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), newick.Write(root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(njCmd)
}
