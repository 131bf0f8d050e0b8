package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/futable/internal/catalog"
	sess "github.com/abhisek/futable/internal/detail"
	"github.com/abhisek/futable/internal/explain"
)

var explainCmd = &cobra.Command{
	Use:   "explain <symbol|name|ordinal>...",
	Short: "Fetch and print explanations for concepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		speak, _ := cmd.Flags().GetBool("speak")
		jobs, _ := cmd.Flags().GetInt("jobs")

		concepts, err := resolveConcepts(args, all)
		if err != nil {
			return err
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		results := make([]*explain.Explanation, len(concepts))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(jobs, 1))
		for i, c := range concepts {
			if speak && i == 0 {
				// The spoken concept goes through a session so its
				// explanation is fetched once.
				g.Go(func() error {
					snap, err := openSession(gctx, d.ctrl, c)
					if err != nil {
						return err
					}
					results[i] = snap.Explanation
					return nil
				})
				continue
			}
			g.Go(func() error {
				exp, err := d.explain.Fetch(gctx, c.Name)
				if err != nil {
					return err
				}
				results[i] = exp
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, c := range concepts {
			if i > 0 {
				fmt.Println()
			}
			printExplanation(c, results[i])
		}

		if speak {
			fmt.Printf("\n正在播放: %s\n", concepts[0].Name)
			return speakSession(ctx, d.ctrl)
		}
		return nil
	},
}

// resolveConcepts maps command arguments to catalog entries.
func resolveConcepts(args []string, all bool) ([]catalog.Concept, error) {
	if all {
		if len(args) > 0 {
			return nil, errors.New("--all takes no arguments")
		}
		return catalog.All(), nil
	}
	if len(args) == 0 {
		return nil, errors.New("name at least one concept, or pass --all")
	}
	concepts := make([]catalog.Concept, 0, len(args))
	for _, ref := range args {
		c, err := catalog.Lookup(ref)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, nil
}

// openSession opens c on the controller and waits for its explanation.
func openSession(ctx context.Context, ctrl *sess.Controller, c catalog.Concept) (sess.Snapshot, error) {
	ctrl.Open(c)
	snap, err := waitState(ctx, ctrl, func(s sess.Snapshot) bool {
		return s.Status != sess.ExplanationPending
	})
	if err != nil {
		return snap, err
	}
	if snap.Status == sess.ExplanationFailed {
		return snap, snap.ExplanationErr
	}
	return snap, nil
}

// speakSession plays the active session's narration and blocks until it
// ends.
func speakSession(ctx context.Context, ctrl *sess.Controller) error {
	ctrl.RequestAudio()
	snap, err := waitState(ctx, ctrl, func(s sess.Snapshot) bool {
		return s.Audio == sess.AudioFailed || (s.Plays > 0 && s.Audio == sess.AudioIdle)
	})
	if err != nil {
		return err
	}
	if snap.Audio == sess.AudioFailed {
		return fmt.Errorf("speech: %w", snap.AudioErr)
	}
	return nil
}

// waitState blocks until cond holds for the controller state.
func waitState(ctx context.Context, ctrl *sess.Controller, cond func(sess.Snapshot) bool) (sess.Snapshot, error) {
	for {
		snap := ctrl.State()
		if cond(snap) {
			return snap, nil
		}
		if !snap.Active {
			return snap, errors.New("session closed")
		}
		select {
		case <-ctrl.Changed():
		case <-ctx.Done():
			return ctrl.State(), ctx.Err()
		}
	}
}

func printExplanation(c catalog.Concept, e *explain.Explanation) {
	fmt.Printf("%d %s %s · %s\n", c.Ordinal, c.Symbol, c.Name, catalog.CategoryDisplayName(c.Category))
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("核心定义: %s\n", e.Definition)
	fmt.Printf("形象比喻: %s\n", e.Analogy)
	fmt.Printf("划重点:   %s\n", e.KeyPoint)
	fmt.Printf("实战举例: %s\n", e.Example)
}

func init() {
	explainCmd.Flags().Bool("all", false, "Explain every concept in the catalog")
	explainCmd.Flags().Bool("speak", false, "Read the first explanation aloud")
	explainCmd.Flags().IntP("jobs", "j", 4, "Concurrent requests")
}
