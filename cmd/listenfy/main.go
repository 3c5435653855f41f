// Command listenfy reads the mood of your Spotify listening.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "listenfy",
		Short: "Mood analysis for your Spotify listening",
		Long: `listenfy reads the audio features of your Spotify tracks and
classifies the mood they add up to.

Run "listenfy serve" for the web app, or "listenfy analyze" to classify
a batch of audio features from the command line.`,
		Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newLogoutCmd())
	return root
}
