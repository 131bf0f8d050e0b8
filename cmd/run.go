package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/futable/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	if d.cfg.Offline {
		fmt.Fprintln(os.Stderr, "No API key found; running in offline mode with sample content.")
		fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY (or another provider key) to enable AI explanations.")
	}

	return app.Run(app.Options{
		Controller: d.ctrl,
		Credits:    d.credits(),
		Status:     d.status(),
		Splash:     true,
		Offline:    d.cfg.Offline,
	})
}
