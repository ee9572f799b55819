// arbor maintains rooted, weighted phylogenetic-style trees: newick and
// nexus IO, structural editing (reroot, simplify, consolidate), patristic
// distance matrices, and neighbor-joining reconstruction from distance
// matrices.
package main

import "arbor/cmd"

func main() {
	cmd.Execute()
}
