package cmd

import (
	"github.com/spf13/cobra"

	"arbor/internal/prep"
)

var matrixFormat = prep.Newick

var matrixCmd = &cobra.Command{
	Use:   "matrix <tree>",
	Short: "print the pairwise patristic distance matrix over a tree's leaves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := prep.ReadTreeFile(args[0], matrixFormat)
		if err != nil {
			return err
		}
		return prep.WriteMatrixCSV(cmd.OutOrStdout(), root.ToMatrix())
	},
}

func init() {
	matrixCmd.Flags().VarP(&matrixFormat, "format", "f", "input tree format [ newick | nexus ]")
	rootCmd.AddCommand(matrixCmd)
}
