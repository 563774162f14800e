package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/latticetile/pkg/errors"
	"github.com/matzehuels/latticetile/pkg/pipeline"
	"github.com/matzehuels/latticetile/pkg/puzzle"
	"github.com/matzehuels/latticetile/pkg/sink"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	limit    int
	timeout  time.Duration
	format   string
	refresh  bool
	quiet    bool
	mongoURI string
	mongoDB  string
	cache    cacheOpts
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{format: pipeline.FormatText}

	cmd := &cobra.Command{
		Use:   "solve [puzzle|file]",
		Short: "Find every tiling of a puzzle",
		Long: `Solve searches all tilings of a built-in puzzle or a TOML definition file.

Solutions are written to stdout, one per line (text), as JSON lines (json) or
laid out along the lattice rows (grid). The solution count and the elapsed
time are reported on stderr.`,
		Example: `  latticetile solve domino-2x2
  latticetile solve cube-2 --format grid --limit 3
  latticetile solve my-puzzle.toml --timeout 1m --format json > solutions.jsonl`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePuzzles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "stop after this many solutions (0 = all)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "stop the search after this long (0 = no timeout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json, grid")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only report the solution count")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", os.Getenv(envMongoURI), "also store solutions in MongoDB (env "+envMongoURI+")")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", sink.DefaultMongoDatabase, "MongoDB database")
	addCacheFlags(cmd, &opts.cache)

	return cmd
}

// addCacheFlags registers the cache backend flags shared by several commands.
func addCacheFlags(cmd *cobra.Command, opts *cacheOpts) {
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", os.Getenv(envRedisAddr), "use the Redis cache at this address (env "+envRedisAddr+")")
}

func (c *CLI) runSolve(ctx context.Context, w io.Writer, arg string, opts solveOpts) error {
	def, err := puzzle.Resolve(arg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	runID := uuid.NewString()
	out, err := c.solveSink(ctx, w, def, runID, opts)
	if err != nil {
		return err
	}

	logger := loggerFrom(ctx)
	finished := timed(logger, "Search finished")
	res, err := runner.Execute(ctx, pipeline.Options{
		Puzzle:   def,
		Limit:    opts.limit,
		Timeout:  opts.timeout,
		Refresh:  opts.refresh,
		Sink:     out,
		RunID:    runID,
		Progress: newSearchProgress(logger).report,
		Logger:   logger,
	})
	if cerr := out.Close(); err == nil && cerr != nil {
		err = errs.Wrap(errs.ErrCodeStorage, cerr, "close output")
	}

	switch {
	case errs.Is(err, errs.ErrCodeTimeout):
		printWarning("Search timed out after %s; results are partial", opts.timeout)
	case err != nil:
		return err
	}

	finished("solutions", res.Count(), "cached", res.CacheHit)
	printSuccess("%s: %d solutions", StyleValue.Render(def.Name), res.Count())
	printRunStats(res.Count(), res.Stats.Placements, res.Stats.Duration, res.CacheHit)
	if res.Truncated {
		printDetail("Run too large to cache (more than %d solutions)", pipeline.MaxCachedSolutions)
	}
	return nil
}

// solveSink builds the output sink: the chosen stdout format unless quiet,
// plus MongoDB when configured.
func (c *CLI) solveSink(ctx context.Context, w io.Writer, def *puzzle.Definition, runID string, opts solveOpts) (sink.Sink, error) {
	var sinks sink.Multi
	if !opts.quiet {
		switch opts.format {
		case pipeline.FormatJSON:
			sinks = append(sinks, sink.NewJSON(w, runID))
		case pipeline.FormatGrid:
			lat, err := def.BuildLattice()
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink.NewGrid(w, lat))
		default:
			sinks = append(sinks, sink.NewText(w))
		}
	}
	if opts.mongoURI != "" {
		m, err := sink.NewMongo(ctx, sink.MongoConfig{
			URI:      opts.mongoURI,
			Database: opts.mongoDB,
			RunID:    runID,
			Puzzle:   def.Name,
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "open mongodb sink")
		}
		c.Logger.Debug("storing solutions in mongodb", "run", runID, "database", opts.mongoDB)
		sinks = append(sinks, m)
	}
	return sinks, nil
}
