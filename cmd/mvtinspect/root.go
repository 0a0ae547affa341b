// root.go - Root command implementation
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mvtinspect",
	Short: "Inspect and validate Mapbox Vector Tiles",
	Long: `mvtinspect decodes Mapbox Vector Tile files (wire versions 1, 2, and 3)
and reports their structure: layers, feature counts, geometry types, and
vertex/attribute counts.

Examples:
  # Summarize a tile's layers and feature counts
  mvtinspect inspect tile.mvt

  # Also print each feature's geometry type and vertex/attribute counts
  mvtinspect inspect --verbose tile.mvt`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mvtinspect.yaml)")
	rootCmd.PersistentFlags().Int("dimensions", 2, "geometry dimensions to decode (2 or 3)")
	rootCmd.PersistentFlags().Int("max-geometric-attributes", 0, "maximum geometric attributes per feature (0 = unbounded)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	viper.BindPFlag("decode.dimensions", rootCmd.PersistentFlags().Lookup("dimensions"))
	viper.BindPFlag("decode.max_geometric_attributes", rootCmd.PersistentFlags().Lookup("max-geometric-attributes"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mvtinspect")
	}

	viper.SetEnvPrefix("MVTINSPECT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("logging.verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
