package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forum-graph-exporter/internal/config"
	"github.com/forum-graph-exporter/internal/dataset"
	"github.com/forum-graph-exporter/internal/models"
)

func i64(v int64) *int64 { return &v }

// stubSource serves fixed in-memory tables.
type stubSource struct {
	users    []*models.User
	posts    []*models.Post
	comments []*models.Comment
	err      error
}

func (s *stubSource) LoadUsers(ctx context.Context) ([]*models.User, error) {
	return s.users, s.err
}

func (s *stubSource) LoadPosts(ctx context.Context) ([]*models.Post, error) {
	return s.posts, s.err
}

func (s *stubSource) LoadComments(ctx context.Context) ([]*models.Comment, error) {
	return s.comments, s.err
}

func testConfig(t *testing.T, threshold int) *config.Config {
	t.Helper()
	return &config.Config{
		Pipeline: config.PipelineConfig{
			ActivityThreshold: threshold,
			OutputPath:        filepath.Join(t.TempDir(), "out.graphml"),
		},
	}
}

func scenarioSource() *stubSource {
	created := time.Date(2021, 3, 14, 9, 5, 30, 0, time.UTC)
	return &stubSource{
		users: []*models.User{
			{ID: 1, Reputation: 100, CreationDate: created},
			{ID: 2, Reputation: 50, CreationDate: created},
			{ID: 3, Reputation: 10, CreationDate: created},
		},
		posts: []*models.Post{
			{ID: 10, PostTypeID: models.PostTypeQuestion, OwnerUserID: i64(1), CreationDate: created},
			{ID: 11, PostTypeID: models.PostTypeAnswer, ParentID: i64(10), OwnerUserID: i64(2), CreationDate: created},
		},
		comments: []*models.Comment{
			{ID: 20, PostID: i64(10), UserID: i64(3), CreationDate: created},
		},
	}
}

func TestRunScenario(t *testing.T) {
	cfg := testConfig(t, 1)
	p := New(scenarioSource(), cfg, zerolog.Nop())

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Nodes)
	assert.Equal(t, 2, result.Edges)
	assert.Equal(t, 1, result.PostEdges.Added)
	assert.Equal(t, 1, result.CommentEdges.Added)
	assert.NotEmpty(t, result.RunID)

	data, err := os.ReadFile(cfg.Pipeline.OutputPath)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `<edge source="2" target="1">`)
	assert.Contains(t, out, `<edge source="3" target="1">`)
	// Timestamps were normalized before serialization
	assert.Contains(t, out, ">2021-03-14 09:05:30</data>")
	assert.NotContains(t, out, "T09:05:30")
}

func TestRunThresholdExcludesInactiveUsers(t *testing.T) {
	src := scenarioSource()
	// User 3 has a single comment; threshold 2 drops them and with them
	// their comment edge.
	cfg := testConfig(t, 2)
	p := New(src, cfg, zerolog.Nop())

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Nodes)

	// Users 1 and 2 each have one post only; nobody reaches 2.
	src.comments = append(src.comments,
		&models.Comment{ID: 21, PostID: i64(10), UserID: i64(1)},
		&models.Comment{ID: 22, PostID: i64(11), UserID: i64(2)},
	)
	cfg = testConfig(t, 2)
	result, err = New(src, cfg, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.PostEdges.Added)
}

func TestRunDanglingParentSkipped(t *testing.T) {
	src := scenarioSource()
	src.posts = append(src.posts, &models.Post{
		ID: 12, PostTypeID: models.PostTypeAnswer, ParentID: i64(999), OwnerUserID: i64(3),
	})
	cfg := testConfig(t, 0)

	result, err := New(src, cfg, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.PostEdges.SkippedUnresolved)
	assert.Equal(t, 2, result.Edges)
}

func TestRunPropagatesSourceError(t *testing.T) {
	src := &stubSource{err: errors.New("disk gone")}
	cfg := testConfig(t, 0)

	_, err := New(src, cfg, zerolog.Nop()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestRunWithCSVSource(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("users.csv",
		"Id,Reputation,CreationDate,LastAccessDate,Views,UpVotes,DownVotes,PostCount,CommentCount,AcceptedAnswerCount,AnswerCount,TotalActivity,AvgAnswerScore,AvgPostScore,AcceptedAnswerFraction,AnswerSentiment\n"+
			"1,100,2020-01-01T00:00:00.000,2021-01-01T00:00:00.000,0,0,0,1,0,0,0,1,0,0,0,0\n"+
			"2,50,2020-01-01T00:00:00.000,2021-01-01T00:00:00.000,0,0,0,1,0,0,0,1,0,0,0,0\n")
	write("posts.csv",
		"Id,PostTypeId,ParentId,AcceptedAnswerId,CreationDate,Score,ViewCount,Body,OwnerUserId,LastActivityDate,Title,Tags,AnswerCount,CommentCount\n"+
			"10,1,,,2020-01-01T00:00:00.000,1,0,q,1,2020-01-01T00:00:00.000,t,,1,0\n"+
			"11,2,10,,2020-01-02T00:00:00.000,1,0,a,2,2020-01-02T00:00:00.000,,,0,0\n")
	write("comments.csv", "Id,PostId,Score,Text,CreationDate,UserId\n")

	dsCfg := config.DatasetConfig{
		DataDir:      dir,
		UsersGlob:    "users*.csv",
		PostsGlob:    "posts*.csv",
		CommentsGlob: "comments*.csv",
	}
	cfg := testConfig(t, 1)
	src := dataset.NewCSVSource(dsCfg, zerolog.Nop())

	result, err := New(src, cfg, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)

	_, err = os.Stat(cfg.Pipeline.OutputPath)
	require.NoError(t, err)
}
