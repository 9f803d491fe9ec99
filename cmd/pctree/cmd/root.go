package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagSchemaPath string

var rootCmd = &cobra.Command{
	Use:   "pctree",
	Short: "Build, inspect, and query geohash-indexed point cloud trees",
}

// Execute runs the CLI, exiting the process with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSchemaPath, "schema", "", "path to the PointCloudSchema XML file")
	_ = rootCmd.MarkPersistentFlagRequired("schema")
}
