package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcgeo/pctree"
	"github.com/pcgeo/pctree/internal/codec"
)

var flagTreePath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a binary tree file's schema and leaf count (not its node structure)",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&flagTreePath, "tree", "", "path to the binary tree file")
	_ = inspectCmd.MarkFlagRequired("tree")
}

func runInspect(_ *cobra.Command, _ []string) error {
	schema, err := loadSchema(flagSchemaPath)
	if err != nil {
		return err
	}

	r, err := codec.OpenFile(flagTreePath)
	if err != nil {
		return fmt.Errorf("open tree file: %w", err)
	}
	defer r.Close()

	tree, err := pctree.Read(r, schema, pctree.DefaultConfig())
	if err != nil {
		return fmt.Errorf("read tree: %w", err)
	}

	fmt.Printf("schema: %d dimension(s)\n", schema.Len())
	for _, d := range schema.All() {
		fmt.Printf("  [%d] %s (%s) scale=%v offset=%v\n", d.Position, d.Name, d.Type, d.Scale, d.Offset)
	}
	fmt.Printf("leaves: %d\n", tree.NumNodes())
	return nil
}
