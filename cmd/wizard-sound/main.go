package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

var (
	cfgFile  string
	backend  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "wizard-sound",
	Short: "Record short spell sounds to WAV",
	Long: `Wizard Sound Maker records from a microphone into a mono 16-bit WAV file
next to your site files. Run without a subcommand to start the tray app.`,
	SilenceUsage: true,
	RunE:         runTray,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wizard-sound %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config directory)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "audio backend: portaudio or miniaudio (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
