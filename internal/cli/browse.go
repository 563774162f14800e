package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/latticetile/pkg/errors"
	"github.com/matzehuels/latticetile/pkg/pipeline"
	"github.com/matzehuels/latticetile/pkg/puzzle"
	"github.com/matzehuels/latticetile/pkg/solver"
)

// Browse defaults keep the pager responsive on large puzzles.
const (
	defaultBrowseLimit   = 500
	defaultBrowseTimeout = time.Minute
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		limit   int
		timeout time.Duration
		cache   cacheOpts
	)

	cmd := &cobra.Command{
		Use:               "browse [puzzle|file]",
		Short:             "Page through the solutions of a puzzle",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePuzzles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], limit, timeout, cache)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultBrowseLimit, "stop after this many solutions")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultBrowseTimeout, "stop the search after this long")
	addCacheFlags(cmd, &cache)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, arg string, limit int, timeout time.Duration, cache cacheOpts) error {
	def, err := puzzle.Resolve(arg)
	if err != nil {
		return err
	}
	lat, err := def.BuildLattice()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Solving "+def.Name+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, pipeline.Options{
		Puzzle:        def,
		Limit:         limit,
		Timeout:       timeout,
		ProgressEvery: 1 << 16,
		Progress: func(s solver.Stats) {
			spinner.SetMessage(fmt.Sprintf("Solving %s... %d solutions", def.Name, s.Solutions))
		},
	})
	spinner.Stop()
	if err != nil && !errs.Is(err, errs.ErrCodeTimeout) {
		return err
	}

	model := NewSolutionBrowserModel(def.Name, lat, res.Solutions, res.Stats.Stopped)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
