// Package pipeline drives the full export: load tables, filter to active
// users, build the interaction graph, normalize timestamp attributes, and
// write the GraphML file. Stages run strictly in order; each one consumes
// artifacts the previous stage produced.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forum-graph-exporter/internal/config"
	"github.com/forum-graph-exporter/internal/dataset"
	"github.com/forum-graph-exporter/internal/filter"
	"github.com/forum-graph-exporter/internal/graph"
	"github.com/forum-graph-exporter/internal/graphml"
)

// Pipeline owns the run: the table source, the configuration, and the
// in-memory graph being built.
type Pipeline struct {
	source dataset.Source
	cfg    *config.Config
	log    zerolog.Logger
}

// Result reports what a completed run produced.
type Result struct {
	RunID        string
	Nodes        int
	Edges        int
	PostEdges    graph.EdgeStats
	CommentEdges graph.EdgeStats
	OutputPath   string
	Duration     time.Duration
}

// New creates a pipeline over the given table source
func New(source dataset.Source, cfg *config.Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		source: source,
		cfg:    cfg,
		log:    log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes every stage in order and writes the graph file.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := p.log.With().Str("run_id", runID).Logger()

	threshold := p.cfg.Pipeline.ActivityThreshold
	log.Info().Int("activity_threshold", threshold).Msg("Starting graph export run")

	// Load tables
	users, err := p.source.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	posts, err := p.source.LoadPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	comments, err := p.source.LoadComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	// Restrict to the active user population
	active := filter.ActiveUsers(users, posts, comments, threshold)
	activeUsers := filter.FilterUsers(users, active)
	log.Info().
		Int("users_total", len(users)).
		Int("users_active", len(activeUsers)).
		Msg("Activity filter applied")

	// Build nodes
	g := graph.New()
	graph.AddUserNodes(g, activeUsers)
	log.Info().Int("nodes", g.NodeCount()).Msg("Nodes added")

	// Answer interactions over the projected posts
	activePosts := filter.FilterPosts(posts, active)
	log.Info().
		Int("posts_total", len(posts)).
		Int("posts_active", len(activePosts)).
		Msg("Posts projected to active owners")

	postStats, err := graph.AddPostEdges(g, activePosts)
	if err != nil {
		return nil, fmt.Errorf("failed to add answer edges: %w", err)
	}
	log.Info().
		Int("added", postStats.Added).
		Int("duplicates", postStats.Duplicates).
		Int("skipped_self", postStats.SkippedSelf).
		Int("skipped_unresolved", postStats.SkippedUnresolved).
		Int("skipped_incomplete", postStats.SkippedIncomplete).
		Int("edges", g.EdgeCount()).
		Msg("Answer edges added")

	// Comment interactions over the projected comments
	activeComments := filter.FilterComments(comments, active, activePosts)
	log.Info().
		Int("comments_total", len(comments)).
		Int("comments_active", len(activeComments)).
		Msg("Comments projected to active authors on active posts")

	commentStats, err := graph.AddCommentEdges(g, activeComments, activePosts)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment edges: %w", err)
	}
	log.Info().
		Int("added", commentStats.Added).
		Int("duplicates", commentStats.Duplicates).
		Int("skipped_self", commentStats.SkippedSelf).
		Int("skipped_unresolved", commentStats.SkippedUnresolved).
		Int("skipped_incomplete", commentStats.SkippedIncomplete).
		Int("edges", g.EdgeCount()).
		Msg("Comment edges added")

	// Last mutation before persistence: GraphML cannot carry time values
	converted := graph.NormalizeTimestamps(g)
	log.Info().Int("attributes_converted", converted).Msg("Timestamp attributes normalized")

	if err := graphml.WriteFile(p.cfg.Pipeline.OutputPath, g); err != nil {
		return nil, fmt.Errorf("failed to write graph: %w", err)
	}

	result := &Result{
		RunID:        runID,
		Nodes:        g.NodeCount(),
		Edges:        g.EdgeCount(),
		PostEdges:    postStats,
		CommentEdges: commentStats,
		OutputPath:   p.cfg.Pipeline.OutputPath,
		Duration:     time.Since(start),
	}
	log.Info().
		Int("nodes", result.Nodes).
		Int("edges", result.Edges).
		Str("output", result.OutputPath).
		Dur("duration", result.Duration).
		Msg("Graph export completed")

	return result, nil
}
