package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/futable/internal/catalog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show per-concept session statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.EventRepo().ConceptStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-4s  %-12s  %8s  %6s  %8s  %10s  %s\n",
			"Sym", "Name", "Sessions", "Plays", "Speech", "Time", "Last opened")
		fmt.Println(strings.Repeat("─", 80))
		for _, st := range stats {
			name := st.Symbol
			if c, err := catalog.BySymbol(st.Symbol); err == nil {
				name = c.Name
			}
			fmt.Printf("%-4s  %-12s  %8d  %6d  %8d  %10s  %s\n",
				st.Symbol,
				name,
				st.Sessions,
				st.Plays,
				st.SpeechFetches,
				(time.Duration(st.TotalMs) * time.Millisecond).Round(time.Second),
				st.LastOpened.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}
