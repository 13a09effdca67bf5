package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forum-graph-exporter/internal/models"
)

func i64(v int64) *int64 { return &v }

func question(id int64, owner *int64) *models.Post {
	return &models.Post{ID: id, PostTypeID: models.PostTypeQuestion, OwnerUserID: owner}
}

func answer(id int64, parent, owner *int64) *models.Post {
	return &models.Post{ID: id, PostTypeID: models.PostTypeAnswer, ParentID: parent, OwnerUserID: owner}
}

func comment(id int64, postID, userID *int64) *models.Comment {
	return &models.Comment{ID: id, PostID: postID, UserID: userID}
}

func newGraphWithUsers(ids ...int64) *InteractionGraph {
	g := New()
	for _, id := range ids {
		g.SetNode(id, map[string]any{"Reputation": int64(0)})
	}
	return g
}

func TestAddUserNodesLastWriteWins(t *testing.T) {
	g := New()
	users := []*models.User{
		{ID: 1, Reputation: 10},
		{ID: 1, Reputation: 99},
	}

	AddUserNodes(g, users)

	require.Equal(t, 1, g.NodeCount())
	n := g.Node(1)
	require.NotNil(t, n)
	assert.Equal(t, int64(99), n.Attrs["Reputation"])
}

func TestAddUserNodesAttachesAllColumnsExceptID(t *testing.T) {
	g := New()
	AddUserNodes(g, []*models.User{{ID: 7, Reputation: 42, AnswerSentiment: 0.5}})

	n := g.Node(7)
	require.NotNil(t, n)
	assert.NotContains(t, n.Attrs, "Id")
	assert.Len(t, n.Attrs, 15)
	assert.Equal(t, int64(42), n.Attrs["Reputation"])
	assert.Equal(t, 0.5, n.Attrs["AnswerSentiment"])
}

func TestAddPostEdges(t *testing.T) {
	tests := []struct {
		name      string
		users     []int64
		posts     []*models.Post
		wantEdges [][2]int64
		wantStats EdgeStats
	}{
		{
			name:  "answer creates answerer to asker edge",
			users: []int64{1, 2},
			posts: []*models.Post{
				question(10, i64(1)),
				answer(11, i64(10), i64(2)),
			},
			wantEdges: [][2]int64{{2, 1}},
			wantStats: EdgeStats{Added: 1},
		},
		{
			name:  "self answer skipped",
			users: []int64{1},
			posts: []*models.Post{
				question(10, i64(1)),
				answer(11, i64(10), i64(1)),
			},
			wantStats: EdgeStats{SkippedSelf: 1},
		},
		{
			name:  "dangling parent skipped without error",
			users: []int64{1, 2},
			posts: []*models.Post{
				question(10, i64(1)),
				answer(11, i64(999), i64(2)),
			},
			wantStats: EdgeStats{SkippedUnresolved: 1},
		},
		{
			name:  "answer missing parent or owner skipped",
			users: []int64{1, 2},
			posts: []*models.Post{
				question(10, i64(1)),
				answer(11, nil, i64(2)),
				answer(12, i64(10), nil),
			},
			wantStats: EdgeStats{SkippedIncomplete: 2},
		},
		{
			name:  "answer to ownerless question skipped",
			users: []int64{1, 2},
			posts: []*models.Post{
				question(10, nil),
				answer(11, i64(10), i64(2)),
			},
			wantStats: EdgeStats{SkippedUnresolved: 1},
		},
		{
			name:  "repeat interactions collapse to one edge",
			users: []int64{1, 2},
			posts: []*models.Post{
				question(10, i64(1)),
				answer(11, i64(10), i64(2)),
				answer(12, i64(10), i64(2)),
			},
			wantEdges: [][2]int64{{2, 1}},
			wantStats: EdgeStats{Added: 1, Duplicates: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraphWithUsers(tt.users...)
			stats, err := AddPostEdges(g, tt.posts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStats, stats)
			assert.Equal(t, len(tt.wantEdges), g.EdgeCount())
			for _, e := range tt.wantEdges {
				assert.True(t, g.HasEdge(e[0], e[1]), "missing edge %d->%d", e[0], e[1])
			}
		})
	}
}

func TestAddCommentEdges(t *testing.T) {
	posts := []*models.Post{
		question(10, i64(1)),
		question(11, nil),
	}

	tests := []struct {
		name      string
		users     []int64
		comments  []*models.Comment
		wantEdges [][2]int64
		wantStats EdgeStats
	}{
		{
			name:      "comment creates commenter to owner edge",
			users:     []int64{1, 3},
			comments:  []*models.Comment{comment(20, i64(10), i64(3))},
			wantEdges: [][2]int64{{3, 1}},
			wantStats: EdgeStats{Added: 1},
		},
		{
			name:      "self comment skipped",
			users:     []int64{1},
			comments:  []*models.Comment{comment(20, i64(10), i64(1))},
			wantStats: EdgeStats{SkippedSelf: 1},
		},
		{
			name:      "comment on unknown post skipped",
			users:     []int64{1, 3},
			comments:  []*models.Comment{comment(20, i64(999), i64(3))},
			wantStats: EdgeStats{SkippedUnresolved: 1},
		},
		{
			name:      "comment on ownerless post skipped",
			users:     []int64{1, 3},
			comments:  []*models.Comment{comment(20, i64(11), i64(3))},
			wantStats: EdgeStats{SkippedUnresolved: 1},
		},
		{
			name:  "comment missing post or author skipped",
			users: []int64{1, 3},
			comments: []*models.Comment{
				comment(20, nil, i64(3)),
				comment(21, i64(10), nil),
			},
			wantStats: EdgeStats{SkippedIncomplete: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraphWithUsers(tt.users...)
			stats, err := AddCommentEdges(g, tt.comments, posts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStats, stats)
			assert.Equal(t, len(tt.wantEdges), g.EdgeCount())
			for _, e := range tt.wantEdges {
				assert.True(t, g.HasEdge(e[0], e[1]), "missing edge %d->%d", e[0], e[1])
			}
		})
	}
}

// Mirrors the canonical three-user scenario: a question by user 1,
// an answer by user 2, and a comment by user 3 on the question.
func TestAnswerAndCommentScenario(t *testing.T) {
	g := newGraphWithUsers(1, 2, 3)
	posts := []*models.Post{
		question(10, i64(1)),
		answer(11, i64(10), i64(2)),
	}
	comments := []*models.Comment{
		comment(20, i64(10), i64(3)),
	}

	_, err := AddPostEdges(g, posts)
	require.NoError(t, err)
	_, err = AddCommentEdges(g, comments, posts)
	require.NoError(t, err)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge(2, 1))
	assert.True(t, g.HasEdge(3, 1))
	assert.False(t, g.HasEdge(1, 1))
	assert.False(t, g.HasEdge(1, 2))
}

func TestAddEdgeRejectsUnknownEndpoints(t *testing.T) {
	g := newGraphWithUsers(1)

	_, err := g.AddEdge(1, 99)
	require.Error(t, err)

	_, err = g.AddEdge(99, 1)
	require.Error(t, err)

	// The builder surfaces the failure instead of silently adding nodes
	posts := []*models.Post{
		question(10, i64(99)),
		answer(11, i64(10), i64(1)),
	}
	_, err = AddPostEdges(g, posts)
	require.Error(t, err)
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	g := newGraphWithUsers(1)
	_, err := g.AddEdge(1, 1)
	require.Error(t, err)
	assert.Equal(t, 0, g.EdgeCount())
}

func TestEdgeInsertionOrderInvariant(t *testing.T) {
	build := func(posts []*models.Post) *InteractionGraph {
		g := newGraphWithUsers(1, 2, 3)
		_, err := AddPostEdges(g, posts)
		require.NoError(t, err)
		return g
	}

	posts := []*models.Post{
		question(10, i64(1)),
		answer(11, i64(10), i64(2)),
		answer(12, i64(10), i64(3)),
	}
	reversed := []*models.Post{posts[0], posts[2], posts[1]}

	a, b := build(posts), build(reversed)
	require.Equal(t, a.EdgeCount(), b.EdgeCount())
	for _, e := range a.Edges() {
		assert.True(t, b.HasEdge(e.F.ID(), e.T.ID()))
	}
}
