package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ignetwork/pkg/config"
	"ignetwork/pkg/errors"
	"ignetwork/pkg/logger"
	"ignetwork/pkg/pipeline"
	"ignetwork/pkg/ui"
)

type stage int

const (
	stageBuild stage = 1 << iota
	stageRender
	stageRun = stageBuild | stageRender
)

// Pipeline command flags. Only flags set on the command line reach the
// config, so file and environment values are not shadowed by flag defaults.
var (
	postsFile       string
	entitiesFile    string
	namesFile       string
	mentionsDir     string
	manifestFile    string
	rawOut          string
	consolidatedOut string
	graphOut        string
	communitiesOut  string
	mode            string
	since           string
	until           string
	workers         int
	algorithm       string
	seed            uint64
	minWeight       float64
	vertexPolicy    string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Extract mention edges and write the edge lists",
	Long: `Scan the posts table and the per-profile mention exports for mentions of
tracked profiles, then write the raw and consolidated edge lists.

Each mention is weighted by the engagement of the post it appears in:
1 + 0.1 x likes + 0.25 x comments.`,
	Example: `  # Build with the default file names in the current directory
  ignetwork build

  # Only scan captions and tags of tracked authors, for 2024
  ignetwork build --mode basic --since 2024-01-01 --until 2024-12-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, stageBuild)
	},
}

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Detect communities and render the interactive graph",
	Long: `Read the consolidated edge list, drop edges under the weight threshold,
detect communities and write the interactive HTML graph.`,
	Example: `  # Render with a fixed seed so communities are reproducible
  ignetwork render --seed 42

  # Keep every tracked profile on the graph, connected or not
  ignetwork render --vertex-policy all --communities-out communities.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, stageRender)
	},
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the edge lists and render the graph in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, stageRun)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)

	for _, c := range []*cobra.Command{buildCmd, runCmd} {
		c.Flags().StringVar(&postsFile, "posts", "", "posts table (CSV)")
		c.Flags().StringVar(&mentionsDir, "mentions-dir", "", "directory of per-profile mention exports")
		c.Flags().StringVar(&manifestFile, "manifest", "", "manifest mapping mention exports to anchor profiles")
		c.Flags().StringVar(&rawOut, "raw-out", "", "raw edge list output")
		c.Flags().StringVar(&mode, "mode", "", "extraction mode (basic, extended)")
		c.Flags().StringVar(&since, "since", "", "ignore posts created before this date (YYYY-MM-DD)")
		c.Flags().StringVar(&until, "until", "", "ignore posts created after this date (YYYY-MM-DD)")
		c.Flags().IntVar(&workers, "workers", 0, "number of mention exports scanned concurrently")
	}

	for _, c := range []*cobra.Command{renderCmd, runCmd} {
		c.Flags().StringVar(&graphOut, "graph-out", "", "interactive graph output (HTML)")
		c.Flags().StringVar(&communitiesOut, "communities-out", "", "community assignment output (CSV)")
		c.Flags().StringVar(&algorithm, "algorithm", "", "community detection (louvain, components, singleton)")
		c.Flags().Uint64Var(&seed, "seed", 0, "random seed for community detection (0 picks one per run)")
		c.Flags().Float64Var(&minWeight, "min-weight", 0, "minimum edge weight kept in the graph")
		c.Flags().StringVar(&vertexPolicy, "vertex-policy", "", "graph vertices (surviving, all)")
	}

	for _, c := range []*cobra.Command{buildCmd, renderCmd, runCmd} {
		c.Flags().StringVar(&entitiesFile, "entities", "", "tracked profiles, one handle per line")
		c.Flags().StringVar(&namesFile, "names", "", "display names and aliases (JSON)")
		c.Flags().StringVar(&consolidatedOut, "consolidated-out", "", "consolidated edge list")
	}
}

// commandFlags collects the flags set on the command line
func commandFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	values := map[string]interface{}{
		"posts":            postsFile,
		"entities":         entitiesFile,
		"names":            namesFile,
		"mentions-dir":     mentionsDir,
		"manifest":         manifestFile,
		"raw-out":          rawOut,
		"consolidated-out": consolidatedOut,
		"graph-out":        graphOut,
		"communities-out":  communitiesOut,
		"mode":             mode,
		"since":            since,
		"until":            until,
		"workers":          workers,
		"algorithm":        algorithm,
		"seed":             seed,
		"min-weight":       minWeight,
		"vertex-policy":    vertexPolicy,
	}
	for name, v := range values {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = v
		}
	}
	if cmd.Flags().Changed("log-level") || verbose || quiet {
		flags["log-level"] = logLevel
	}
	if noColor {
		flags["no-color"] = true
	}
	return flags
}

func runStage(cmd *cobra.Command, s stage) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.WithField("version", version)

	p, err := pipeline.New(cfg, log)
	if err != nil {
		ui.PrintError("Invalid configuration", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary *pipeline.Summary
	switch s {
	case stageBuild:
		summary, err = p.Build(ctx)
	case stageRender:
		summary, err = p.Render(ctx)
	default:
		summary, err = p.Run(ctx)
	}

	if summary != nil {
		logger.LogMetrics(log, cmd.Name(), summary.Fields())
		if !quiet {
			ui.PrintPanel(fmt.Sprintf("ignetwork %s", cmd.Name()), summaryRows(summary, s))
		}
	}

	if code := exitCode(ctx, err); code != 0 {
		os.Exit(code)
	}
	if err == nil && !quiet {
		ui.PrintSuccess("Done: " + strings.Join(summary.Outputs, ", "))
	}
	return nil
}

// exitCode reports the outcome of a stage and maps it to a process exit code:
// 0 on success or an empty result, 130 when interrupted, 1 on a fatal error
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil:
		ui.PrintWarning("Interrupted")
		return 130
	case errors.IsFatal(err):
		logger.WithError(err).Error("Run failed")
		ui.PrintError("Run failed", err.Error())
		return 1
	default:
		ui.PrintWarning("Nothing to write", err.Error())
		return 0
	}
}

func summaryRows(s *pipeline.Summary, st stage) []ui.Row {
	rows := []ui.Row{
		ui.RowOf("Run", s.RunID),
		ui.RowOf("Tracked profiles", s.Entities),
	}
	if st&stageBuild != 0 {
		rows = append(rows,
			ui.RowOf("Posts", s.Posts),
			ui.RowOf("Mention exports", fmt.Sprintf("%d (%d skipped)", s.MentionFiles, s.SkippedFiles)),
			ui.RowOf("Direct edges", s.DirectEdges),
			ui.RowOf("Co-mention edges", s.CoMentionEdges),
			ui.RowOf("Raw edges", s.RawEdges),
		)
	}
	rows = append(rows, ui.RowOf("Consolidated edges", s.ConsolidatedEdges))
	if st&stageRender != 0 {
		rows = append(rows,
			ui.RowOf("Edges kept", s.FilteredEdges),
			ui.RowOf("Vertices", s.Vertices),
			ui.RowOf("Communities", s.Communities),
			ui.RowOf("Modularity", fmt.Sprintf("%.4f", s.Modularity)),
			ui.RowOf("Algorithm", fmt.Sprintf("%s (seed %d)", s.Algorithm, s.Seed)),
		)
	}
	rows = append(rows, ui.RowOf("Duration", s.Duration.Round(time.Millisecond)))
	return rows
}
