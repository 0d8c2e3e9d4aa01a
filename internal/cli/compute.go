package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floatpos/pkg/middleware"
	"github.com/matzehuels/floatpos/pkg/pipeline"
	"github.com/matzehuels/floatpos/pkg/position"
	"github.com/matzehuels/floatpos/pkg/scene"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// computeOpts holds the flags shared by compute and preview.
type computeOpts struct {
	jobs      []string
	refresh   bool
	maxResets int
	cache     cacheFlags
}

func (o *computeOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.jobs, "job", "j", nil, "only run the given job IDs (repeatable)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even when results are cached")
	cmd.Flags().IntVar(&o.maxResets, "max-resets", 0, "reset budget per job (default 50)")
	o.cache.register(cmd)
}

// computeCommand creates the compute command.
func (c *CLI) computeCommand() *cobra.Command {
	var (
		opts   computeOpts
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "compute [scene]",
		Short: "Position the jobs of a scene",
		Long: `Position the jobs of a scene.

The scene file is TOML, or JSON when it ends in .json. Every job runs its
middleware chain against the scene's boxes; the result is the floating
element's final coordinates, placement and per-middleware data.

Results are cached locally (or in Redis with --redis) for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown format %q: want %s or %s", format, formatTable, formatJSON)
			}
			return c.runCompute(cmd.Context(), cmd.OutOrStdout(), args[0], opts, format, output)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON results to a file")

	return cmd
}

func (c *CLI) runCompute(ctx context.Context, w io.Writer, path string, opts computeOpts, format, output string) error {
	s, res, err := c.computeScene(ctx, path, opts)
	if err != nil {
		return err
	}

	if output != "" {
		if err := writeJSONFile(output, res); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Positioned %s", sceneLabel(s, path))
		printFile(output)
		printStats(res.Stats)
		return nil
	}

	if format == formatJSON {
		return writeJSON(w, res)
	}

	writeResultTable(w, res)
	printStats(res.Stats)
	for _, j := range res.Jobs {
		if h, ok := decodeData[middleware.HideData](j.MiddlewareData, middleware.NameHide); ok && h.ReferenceHidden {
			printWarning("job %s: reference is clipped out of view", j.ID)
		}
	}
	printNewline()
	printNextStep("Preview", appName+" preview "+path)
	return nil
}

// computeScene loads a scene and runs it with a spinner on stderr.
func (c *CLI) computeScene(ctx context.Context, path string, opts computeOpts) (*scene.Scene, *pipeline.Result, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load scene %s: %w", path, err)
	}

	runner, err := c.newRunner(ctx, opts.cache, scopeCLI)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sp := newSpinner(ctx, fmt.Sprintf("Positioning %s...", sceneLabel(s, path)))
	sp.Start()

	res, err := runner.Run(ctx, pipeline.Options{
		Scene:     s,
		Jobs:      opts.jobs,
		MaxResets: opts.maxResets,
		Refresh:   opts.refresh,
		Logger:    loggerFromContext(ctx),
	})
	if err != nil {
		sp.StopWithError("Positioning failed")
		return nil, nil, err
	}
	sp.Stop()

	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}
	return s, res, nil
}

func sceneLabel(s *scene.Scene, path string) string {
	if s.Name != "" {
		return s.Name
	}
	return path
}

// markers summarizes what the middleware of a job reported.
func markers(j pipeline.JobResult) []string {
	var m []string
	if s, ok := decodeData[middleware.ShiftData](j.MiddlewareData, middleware.NameShift); ok && (s.X != 0 || s.Y != 0) {
		m = append(m, "shifted")
	}
	if _, ok := j.MiddlewareData[middleware.NameSize]; ok {
		m = append(m, "sized")
	}
	if h, ok := decodeData[middleware.HideData](j.MiddlewareData, middleware.NameHide); ok {
		if h.ReferenceHidden {
			m = append(m, "ref-hidden")
		}
		if h.Escaped {
			m = append(m, "escaped")
		}
	}
	return m
}

// decodeData returns a middleware's data as T. Fresh results hold the
// middleware's own types while cached ones hold decoded JSON.
func decodeData[T any](d position.Data, name string) (T, bool) {
	if v, ok := position.Get[T](d, name); ok {
		return v, true
	}
	var v T
	raw, ok := d[name]
	if !ok {
		return v, false
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false
	}
	return v, true
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
