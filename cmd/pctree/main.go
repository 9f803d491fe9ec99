// Command pctree is a thin driver over the pctree library: build a
// binary tree file from a flat nodelist, inspect one, or query one with
// a single attribute filter. It owns no tree-construction logic of its
// own — every subcommand is a direct call into the pctree package.
package main

import "github.com/pcgeo/pctree/cmd/pctree/cmd"

func main() {
	cmd.Execute()
}
