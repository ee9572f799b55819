package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/newick"
	"arbor/internal/prep"
)

var rerootFormat = prep.Newick

var rerootCmd = &cobra.Command{
	Use:   "reroot <tree> <label>",
	Short: "reroot a tree at the named node",
	Long: `Reroots the tree at the node with the given label by inverting every
edge between it and the old root, preserving all pairwise distances, and
prints the result as newick.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := prep.ReadTreeFile(args[0], rerootFormat)
		if err != nil {
			return err
		}
		target, err := root.Find(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), newick.Write(target.Reroot()))
		return nil
	},
}

func init() {
	rerootCmd.Flags().VarP(&rerootFormat, "format", "f", "input tree format [ newick | nexus ]")
	rootCmd.AddCommand(rerootCmd)
}
