package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/futable/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "futable",
	Short: "Futures concepts as a periodic table",
	Long: "futable is a terminal periodic table of futures trading concepts. Pick an element to get an " +
		"AI-generated beginner explanation in Simplified Chinese, and listen to it read aloud.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides FUTABLE_DB env var)")
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/futable/config.toml)")
	flags.BoolP("verbose", "v", false, "Log at debug level")
	flags.Bool("mute", false, "Use the silent audio backend")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then FUTABLE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
