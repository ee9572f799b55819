package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbor/internal/newick"
	"arbor/internal/prep"
	"arbor/internal/tree"
)

var (
	convertFormat = prep.Newick
	convertToJSON bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <tree>",
	Short: "convert between newick/nexus trees and the plain JSON tree shape",
	Long: `Converts a tree file to the plain JSON tree shape
({"id": ..., "length": ..., "children": [...]}) with --json, or converts
such a JSON file back to newick.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if convertToJSON {
			root, err := prep.ReadTreeFile(args[0], convertFormat)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(root.Plain())
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading tree file: %w", err)
		}
		var plain tree.Plain
		if err := json.Unmarshal(data, &plain); err != nil {
			return fmt.Errorf("%w, bad JSON tree: %s", prep.ErrInvalidFormat, err.Error())
		}
		fmt.Fprintln(cmd.OutOrStdout(), newick.Write(tree.FromPlain(&plain)))
		return nil
	},
}

func init() {
	convertCmd.Flags().VarP(&convertFormat, "format", "f", "input tree format [ newick | nexus ]")
	convertCmd.Flags().BoolVar(&convertToJSON, "json", false, "convert tree to plain JSON instead of JSON to newick")
	rootCmd.AddCommand(convertCmd)
}
