// Package cli wires the mvtdump command tree: cobra for subcommand
// structure, logrus for diagnostics.
package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mvtdump",
	Short: "Inspect and decode Mapbox Vector Tile buffers",
	Long: `mvtdump decodes Mapbox Vector Tile buffers read from a raw tile
file or an mbtiles sqlite database, and prints their layers, features,
and geometries without ever re-encoding them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// Execute runs the root command, returning any error cobra reports (such
// as a bad flag or argument count) so main can set the process exit code.
// A subcommand that fails while running logs the error and exits the
// process itself.
func Execute() error {
	return rootCmd.Execute()
}

func exitWithError(msg string, err error) {
	log.WithError(err).Error(msg)
}
