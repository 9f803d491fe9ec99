package cmd

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pcgeo/pctree"
	"github.com/pcgeo/pctree/internal/core"
	"github.com/pcgeo/pctree/pcxml"
)

var (
	flagNodesPath string
	flagOutPath   string
	flagMaxRes    int
	flagDupesYes  bool
)

type nodelistEntry struct {
	Hash  string             `json:"hash"`
	Attrs map[string]float64 `json:"attrs"`
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a binary tree file from a flat nodelist (JSON) and a schema",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&flagNodesPath, "nodes", "", "path to the nodelist JSON file")
	_ = buildCmd.MarkFlagRequired("nodes")
	buildCmd.Flags().StringVar(&flagOutPath, "out", "", "path to write the binary tree file")
	_ = buildCmd.MarkFlagRequired("out")
	buildCmd.Flags().IntVar(&flagMaxRes, "resolution", core.MaxResolution, "max geohash resolution")
	buildCmd.Flags().BoolVar(&flagDupesYes, "dupes-yes", false, "keep duplicate-hash leaves as siblings instead of merging them")
}

func runBuild(_ *cobra.Command, _ []string) error {
	schema, err := loadSchema(flagSchemaPath)
	if err != nil {
		return err
	}

	f, err := os.Open(flagNodesPath)
	if err != nil {
		return fmt.Errorf("open nodelist: %w", err)
	}
	defer f.Close()

	var entries []nodelistEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return fmt.Errorf("decode nodelist: %w", err)
	}

	dupes := pctree.DupesNo
	if flagDupesYes {
		dupes = pctree.DupesYes
	}
	config := pctree.Config{MaxResolution: flagMaxRes, Dupes: dupes}

	hashes := make([]string, len(entries))
	attrLists := make([]*core.AttrList, len(entries))
	for i, e := range entries {
		hashes[i] = e.Hash
		list := core.NewAttrList()
		for _, d := range schema.PayloadDims() {
			v, ok := e.Attrs[d.Name]
			if !ok {
				continue
			}
			attr, err := core.NewFromDouble(d, v)
			if err != nil {
				return fmt.Errorf("node %q dimension %q: %w", e.Hash, d.Name, err)
			}
			list.Append(attr)
		}
		attrLists[i] = list
	}

	tree, report, err := pctree.NewFromNodeList(schema, config, hashes, attrLists)
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	out, err := os.Create(flagOutPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if err := tree.Write(out, binary.LittleEndian); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	fmt.Printf("built %d leaves, compacted %d attribute(s) across %d dimension(s)\n",
		tree.NumNodes(), report.AttributesRemoved, report.DimensionsCompacted)
	return nil
}

func loadSchema(path string) (*core.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()
	schema, err := pcxml.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return schema, nil
}
