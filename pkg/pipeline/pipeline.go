package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ignetwork/internal/scanpool"
	"ignetwork/pkg/alias"
	"ignetwork/pkg/config"
	"ignetwork/pkg/errors"
	"ignetwork/pkg/logger"
	"ignetwork/pkg/mention"
	"ignetwork/pkg/models"
	"ignetwork/pkg/network"
	"ignetwork/pkg/storage"
	"ignetwork/pkg/visual"
)

// Pipeline orchestrates edge extraction, consolidation, community detection
// and rendering for one run
type Pipeline struct {
	config   *config.Config
	logger   logger.Logger
	runID    string
	detector network.Detector
	policy   visual.VertexPolicy
}

// New creates a Pipeline. A nil logger uses the global one.
func New(cfg *config.Config, log logger.Logger) (*Pipeline, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	detector, err := network.DetectorByName(cfg.Community.Algorithm, cfg.Community.Resolution)
	if err != nil {
		return nil, errors.Config("", "invalid community settings", err)
	}
	policy, err := visual.ParsePolicy(cfg.Visual.VertexPolicy)
	if err != nil {
		return nil, errors.Config("", "invalid visual settings", err)
	}

	runID := uuid.NewString()
	return &Pipeline{
		config:   cfg,
		logger:   log.WithField("run_id", runID),
		runID:    runID,
		detector: detector,
		policy:   policy,
	}, nil
}

// RunID returns the identifier attached to every log line of this run
func (p *Pipeline) RunID() string {
	return p.runID
}

// Build extracts direct and co-mention edges and writes the raw and
// consolidated edge lists. It returns errors.ErrNoConnections, and writes
// nothing, when no edge is found.
func (p *Pipeline) Build(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := p.newSummary()

	_, err := p.build(ctx, summary)
	summary.Duration = time.Since(start)
	return summary, err
}

// Render reads the consolidated edge list, detects communities and writes
// the graph page. It returns errors.ErrNoEdgesAfterFilter, and writes
// nothing, when no edge passes the weight threshold.
func (p *Pipeline) Render(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := p.newSummary()

	edges, err := storage.ReadEdges(p.config.Output.ConsolidatedEdgesFile)
	if err != nil {
		return summary, err
	}
	summary.ConsolidatedEdges = len(edges)

	table, err := p.loadTable(ctx, nil)
	if err != nil {
		return summary, err
	}
	summary.Entities = len(table.Entities())

	err = p.render(ctx, summary, edges, table)
	summary.Duration = time.Since(start)
	return summary, err
}

// Run builds and renders in one pass, reusing the consolidated edges
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := p.newSummary()

	res, err := p.build(ctx, summary)
	if err == nil {
		err = p.render(ctx, summary, res.consolidated, res.table)
	}
	summary.Duration = time.Since(start)
	return summary, err
}

func (p *Pipeline) newSummary() *Summary {
	return &Summary{RunID: p.runID, Algorithm: p.config.Community.Algorithm}
}

type buildResult struct {
	consolidated []models.Edge
	table        *alias.Table
}

func (p *Pipeline) build(ctx context.Context, summary *Summary) (*buildResult, error) {
	cfg := p.config
	stageStart := time.Now()
	logger.LogComponentStart(p.logger, "build", map[string]interface{}{
		"mode":    cfg.Extraction.Mode,
		"workers": cfg.Extraction.Workers,
	})

	var posts []models.Post
	table, err := p.loadTable(ctx, &posts)
	if err != nil {
		return nil, err
	}
	summary.Entities = len(table.Entities())
	summary.Posts = len(posts)

	opts, err := extractionOptions(cfg.Extraction)
	if err != nil {
		return nil, errors.Config("", "invalid extraction settings", err)
	}
	matcher, err := mention.NewMatcher(table, cfg.Extraction.MatchTimeout)
	if err != nil {
		return nil, errors.Config(cfg.Input.NamesFile, "cannot compile mention patterns", err)
	}
	extractor := mention.NewExtractor(matcher, table, opts, p.logger)

	direct := extractor.Direct(posts)
	summary.DirectEdges = len(direct)
	logger.LogStage(p.logger, "direct", map[string]interface{}{
		"posts": len(posts),
		"edges": len(direct),
	})

	co, err := p.scanMentions(ctx, summary, table, extractor)
	if err != nil {
		return nil, err
	}
	summary.CoMentionEdges = len(co)

	raw := append(direct, co...)
	summary.RawEdges = len(raw)
	if len(raw) == 0 {
		return nil, errors.ErrNoConnections
	}

	if err := storage.WriteEdges(cfg.Output.RawEdgesFile, raw); err != nil {
		return nil, err
	}
	summary.Outputs = append(summary.Outputs, cfg.Output.RawEdgesFile)

	consolidated := network.Consolidate(raw)
	summary.ConsolidatedEdges = len(consolidated)
	if err := storage.WriteEdges(cfg.Output.ConsolidatedEdgesFile, consolidated); err != nil {
		return nil, err
	}
	summary.Outputs = append(summary.Outputs, cfg.Output.ConsolidatedEdgesFile)

	logger.LogComponentStop(p.logger, "build", stageStart, map[string]interface{}{
		"raw_edges":          len(raw),
		"consolidated_edges": len(consolidated),
	})
	// render sees the weights the consolidated file holds
	return &buildResult{consolidated: storage.StoredEdges(consolidated), table: table}, nil
}

// loadTable reads the entity list and, when posts is not nil, the post
// dataset concurrently, then builds the alias table
func (p *Pipeline) loadTable(ctx context.Context, posts *[]models.Post) (*alias.Table, error) {
	in := p.config.Input
	var entities []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, err = storage.ReadEntities(in.EntitiesFile)
		return err
	})
	if posts != nil {
		g.Go(func() error {
			var err error
			*posts, err = storage.ReadPosts(in.PostsFile)
			if err != nil {
				return err
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return alias.Load(in.NamesFile, entities, in.NamesRequired)
}

func (p *Pipeline) scanMentions(ctx context.Context, summary *Summary, table *alias.Table, extractor *mention.Extractor) ([]models.Edge, error) {
	in := p.config.Input
	sources, err := storage.MentionSources(in.MentionsDir, in.ManifestPath(), p.logger)
	if err != nil {
		return nil, err
	}

	resolved := make([]storage.MentionSource, 0, len(sources))
	for _, src := range sources {
		anchor, ok := table.Canonical(src.Anchor)
		if !ok {
			summary.SkippedFiles++
			logger.LogFileSkipped(p.logger, src.File,
				errors.Wrap(errors.ErrorTypeFile, src.File, fmt.Sprintf("unknown anchor %q", src.Anchor), nil))
			continue
		}
		src.Anchor = anchor
		resolved = append(resolved, src)
	}

	scanner := scanpool.ScanFunc(func(ctx context.Context, src storage.MentionSource) ([]models.Edge, int, error) {
		posts, err := storage.ReadPosts(src.File)
		if err != nil {
			return nil, 0, err
		}
		return extractor.CoMentions(src.Anchor, posts), len(posts), nil
	})

	results, err := scanpool.Run(ctx, p.config.Extraction.Workers, resolved, scanner, p.logger)
	if err != nil {
		return nil, err
	}

	var edges []models.Edge
	for _, r := range results {
		if r.Error != nil {
			summary.SkippedFiles++
			logger.LogFileSkipped(p.logger, r.Job.Source.File,
				errors.Wrap(errors.ErrorTypeFile, r.Job.Source.File, "mention file skipped", r.Error))
			continue
		}
		summary.MentionFiles++
		edges = append(edges, r.Edges...)
	}

	logger.LogStage(p.logger, "co-mentions", map[string]interface{}{
		"files":   summary.MentionFiles,
		"skipped": summary.SkippedFiles,
		"edges":   len(edges),
	})
	return edges, nil
}

func (p *Pipeline) render(ctx context.Context, summary *Summary, consolidated []models.Edge, table *alias.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := p.config
	stageStart := time.Now()

	filtered, err := visual.Filter(consolidated, cfg.Visual.MinWeight)
	if err != nil {
		p.logger.WithField("min_weight", cfg.Visual.MinWeight).Warn("No edges pass the weight threshold, graph not written")
		return err
	}
	summary.FilteredEdges = len(filtered)

	g := network.NewGraph(filtered)
	seed := cfg.Community.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	summary.Seed = seed

	assignment, err := p.detector.Partition(g, seed)
	if err != nil {
		return fmt.Errorf("community detection failed: %w", err)
	}
	summary.Communities = assignment.Count()
	summary.Modularity = network.Modularity(g, assignment, cfg.Community.Resolution)
	pagerank := network.PageRank(g, cfg.Community.PageRankDamping, cfg.Community.PageRankTolerance)

	logger.LogStage(p.logger, "communities", map[string]interface{}{
		"algorithm":   cfg.Community.Algorithm,
		"seed":        fmt.Sprint(seed),
		"vertices":    g.Order(),
		"communities": summary.Communities,
		"modularity":  summary.Modularity,
	})

	if err := ctx.Err(); err != nil {
		return err
	}

	vertices := visual.Vertices(p.policy, filtered, consolidated, table.Entities())
	net := visual.Map(filtered, vertices, assignment, pagerank, table, visualOptions(cfg))
	summary.Vertices = len(net.Nodes)

	if err := visual.WriteHTML(cfg.Output.GraphFile, net, page(cfg)); err != nil {
		return errors.Wrap(errors.ErrorTypeIO, cfg.Output.GraphFile, "cannot write graph page", err)
	}
	summary.Outputs = append(summary.Outputs, cfg.Output.GraphFile)

	if cfg.Output.CommunitiesFile != "" {
		rows := make([]storage.CommunityRow, 0, len(net.Nodes))
		for _, n := range net.Nodes {
			rows = append(rows, storage.CommunityRow{
				Handle:    n.ID,
				Label:     n.Label,
				Community: n.Community,
				Relevance: n.Relevance,
				PageRank:  n.PageRank,
			})
		}
		if err := storage.WriteCommunities(cfg.Output.CommunitiesFile, rows); err != nil {
			return err
		}
		summary.Outputs = append(summary.Outputs, cfg.Output.CommunitiesFile)
	}

	logger.LogComponentStop(p.logger, "render", stageStart, map[string]interface{}{
		"filtered_edges": len(filtered),
		"vertices":       summary.Vertices,
	})
	return nil
}
