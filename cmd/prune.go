package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/newick"
	"arbor/internal/prep"
	"arbor/internal/tree"
)

var (
	simplifyFormat    = prep.Newick
	consolidateFormat = prep.Newick
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify <tree>",
	Short: "collapse single-child chains into single summed edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rewrite(cmd, args[0], simplifyFormat, (*tree.Node).Simplify)
	},
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate <tree>",
	Short: "merge branches with negligible length into their parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rewrite(cmd, args[0], consolidateFormat, (*tree.Node).Consolidate)
	},
}

func rewrite(cmd *cobra.Command, path string, format prep.Format, apply func(*tree.Node)) error {
	root, err := prep.ReadTreeFile(path, format)
	if err != nil {
		return err
	}
	apply(root)
	fmt.Fprintln(cmd.OutOrStdout(), newick.Write(root))
	return nil
}

func init() {
	simplifyCmd.Flags().VarP(&simplifyFormat, "format", "f", "input tree format [ newick | nexus ]")
	consolidateCmd.Flags().VarP(&consolidateFormat, "format", "f", "input tree format [ newick | nexus ]")
	rootCmd.AddCommand(simplifyCmd, consolidateCmd)
}
