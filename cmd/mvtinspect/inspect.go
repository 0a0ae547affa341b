// inspect.go - Tile inspection command
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vtzero-go/mvt/internal/config"
	"github.com/vtzero-go/mvt/internal/logging"
	"github.com/vtzero-go/mvt/pkg/mvt"
)

var inspectVerbose bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode a tile file and print a summary of its contents",
	Long: `inspect reads a single .mvt file from disk, decodes it, and prints a
summary of each layer: its version, extent, feature count, and (with
--verbose) every feature's geometry type and vertex/attribute counts.

Examples:
  mvtinspect inspect tile.mvt
  mvtinspect inspect --verbose --dimensions 3 tile.mvt`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&inspectVerbose, "verbose", "v", false, "print per-feature detail")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	tile := mvt.NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	logger.WithField("layers", len(layers)).Infof("decoded %s", path)

	for _, layer := range layers {
		fmt.Printf("layer %q (v%d): extent=%d features=%d\n",
			layer.Name(), layer.Version(), layer.Extent(), layer.NumFeatures())

		if !inspectVerbose {
			continue
		}

		features, err := layer.Features()
		if err != nil {
			return fmt.Errorf("decoding features of layer %q: %w", layer.Name(), err)
		}
		for _, feature := range features {
			if err := printFeature(cmd, feature, cfg.Decode); err != nil {
				logger.WithError(err).Warnf("feature %d in layer %q", feature.Num(), layer.Name())
			}
		}
	}

	return nil
}

func printFeature(cmd *cobra.Command, f mvt.Feature, decodeCfg config.DecodeConfig) error {
	s := newSummaryHandler(decodeCfg)
	if err := f.DecodeGeometry(s); err != nil {
		return err
	}
	if err := f.DecodeAttributes(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  feature %d: type=%s vertices=%d attrs=%d\n",
		f.Num(), f.GeomType(), s.vertices, s.attrs)
	return nil
}
