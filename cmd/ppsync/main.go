// Command ppsync inspects and replays model synchronization.
//
// Usage:
//
//	ppsync <command> [flags]
//
// Examples:
//
//	# Print the field layout of every collection
//	ppsync models
//
//	# Show how a server response would be stored
//	ppsync decode --collection servicePlans plans.json
//
//	# Replay responses into one session, logging events and saving records
//	ppsync sync --collection devices --snapshot out/devices.json day1.json day2.json
//
//	# View the event log of a sync run
//	ppsync log view --category sync sync.plog
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peoplepower/ppsync-go/cmd/ppsync/commands"
	"github.com/peoplepower/ppsync-go/pkg/config"
	"github.com/peoplepower/ppsync-go/pkg/version"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "ppsync",
	Short:         "Inspect and replay model synchronization",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c = loaded
		}
		if err := c.ApplyEnv(); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}

		level, err := c.SlogLevel()
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		cfg = c
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models [collection...]",
	Short: "Print the field layout of collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunModels(args, cmd.OutOrStdout())
	},
}

var decodeCollection string

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a JSON or CBOR payload file and print the stored records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunDecode(args[0], decodeCollection, cmd.OutOrStdout())
	},
}

var syncOpts commands.SyncOptions

var syncCmd = &cobra.Command{
	Use:   "sync <file>...",
	Short: "Apply payload files in order to one session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		syncOpts.Files = args
		return commands.RunSync(cfg, syncOpts, cmd.OutOrStdout())
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Apply payloads interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunShell(cfg)
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Read sync event logs",
}

var viewOpts commands.ViewOptions

var logViewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View a log file in human-readable format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunView(args[0], viewOpts, cmd.OutOrStdout())
	},
}

var (
	exportFormat string
	exportOutput string
)

var logExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a log file to JSONL or CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunExport(args[0], exportFormat, exportOutput)
	},
}

var logStatsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Show statistics about a log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunStats(args[0], cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the snapshot format version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ppsync snapshot format %s\n", version.Current)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.yaml or .toml)")

	decodeCmd.Flags().StringVar(&decodeCollection, "collection", "", "Target collection")
	_ = decodeCmd.MarkFlagRequired("collection")

	syncCmd.Flags().StringVar(&syncOpts.Collection, "collection", "", "Target collection")
	syncCmd.Flags().StringVar(&syncOpts.Snapshot, "snapshot", "", "Save the final records to this file")
	_ = syncCmd.MarkFlagRequired("collection")

	logViewCmd.Flags().StringVar(&viewOpts.SessionID, "session", "", "Filter by session ID")
	logViewCmd.Flags().StringVar(&viewOpts.Collection, "collection", "", "Filter by collection")
	logViewCmd.Flags().StringVar(&viewOpts.RecordID, "id", "", "Filter by record ID")
	logViewCmd.Flags().StringVar(&viewOpts.Category, "category", "", "Filter by category (decode, sync, state, error)")
	logViewCmd.Flags().StringVar(&viewOpts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	logViewCmd.Flags().StringVar(&viewOpts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")

	logExportCmd.Flags().StringVar(&exportFormat, "format", "jsonl", "Output format (jsonl, csv)")
	logExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")

	logCmd.AddCommand(logViewCmd, logExportCmd, logStatsCmd)
	rootCmd.AddCommand(modelsCmd, decodeCmd, syncCmd, shellCmd, logCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
