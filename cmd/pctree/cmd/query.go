package cmd

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pcgeo/pctree"
	"github.com/pcgeo/pctree/internal/codec"
)

var (
	flagQueryDim   string
	flagQueryOp    string
	flagThreshold  float64
	flagThreshold2 float64
	flagQueryOut   string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter a binary tree file by a single attribute predicate, writing survivors to a new tree file",
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&flagTreePath, "tree", "", "path to the binary tree file")
	_ = queryCmd.MarkFlagRequired("tree")
	queryCmd.Flags().StringVar(&flagQueryDim, "dim", "", "dimension name to filter on")
	_ = queryCmd.MarkFlagRequired("dim")
	queryCmd.Flags().StringVar(&flagQueryOp, "op", "", "gt, lt, between, or eq")
	_ = queryCmd.MarkFlagRequired("op")
	queryCmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "predicate threshold (or lower bound for between)")
	queryCmd.Flags().Float64Var(&flagThreshold2, "threshold2", 0, "upper bound for between")
	queryCmd.Flags().StringVar(&flagQueryOut, "out", "", "path to write the filtered tree file")
	_ = queryCmd.MarkFlagRequired("out")
}

func runQuery(_ *cobra.Command, _ []string) error {
	schema, err := loadSchema(flagSchemaPath)
	if err != nil {
		return err
	}

	dim, err := schema.ByName(flagQueryDim)
	if err != nil {
		return fmt.Errorf("resolve dimension: %w", err)
	}

	op, err := parseOp(flagQueryOp)
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

	filtered, err := tree.Filter(pctree.Filter{
		Dim:        dim,
		Op:         op,
		Threshold:  flagThreshold,
		Threshold2: flagThreshold2,
	})
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	out, err := os.Create(flagQueryOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if err := filtered.Write(out, binary.LittleEndian); err != nil {
		return fmt.Errorf("write filtered tree: %w", err)
	}

	fmt.Printf("%d of %d leaves survived\n", filtered.NumNodes(), tree.NumNodes())
	return nil
}

func parseOp(s string) (pctree.FilterOp, error) {
	switch s {
	case "gt":
		return pctree.GreaterThan, nil
	case "lt":
		return pctree.LessThan, nil
	case "between":
		return pctree.Between, nil
	case "eq":
		return pctree.Equal, nil
	default:
		return 0, fmt.Errorf("unknown op %q: want gt, lt, between, or eq", s)
	}
}
