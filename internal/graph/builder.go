package graph

import (
	"fmt"

	"github.com/forum-graph-exporter/internal/models"
)

// EdgeStats summarizes one edge-adding pass.
type EdgeStats struct {
	Added             int // edges inserted into the graph
	Duplicates        int // interactions collapsed onto an existing edge
	SkippedSelf       int // interactions between a user and themselves
	SkippedUnresolved int // foreign key did not resolve to a known owner
	SkippedIncomplete int // rows missing the owner or target reference
}

// AddUserNodes inserts one node per user, attaching every column except the
// id as a node attribute. A duplicate id overwrites the earlier node's
// attributes. Returns the number of rows applied.
func AddUserNodes(ig *InteractionGraph, users []*models.User) int {
	for _, u := range users {
		ig.SetNode(u.ID, u.Attributes())
	}
	return len(users)
}

// AddPostEdges derives answer interactions: for every answer whose parent
// question is known, add a directed edge answerer -> asker. Answers missing
// their parent or owner reference, answers to unknown or ownerless
// questions, and self-answers are skipped.
func AddPostEdges(ig *InteractionGraph, posts []*models.Post) (EdgeStats, error) {
	var stats EdgeStats

	// Question id -> asker id lookup. Ownerless questions stay out of the
	// lookup and the answers to them are counted as unresolved.
	askers := make(map[int64]int64)
	for _, p := range posts {
		if p.IsQuestion() && p.OwnerUserID != nil {
			askers[p.ID] = *p.OwnerUserID
		}
	}

	for _, p := range posts {
		if !p.IsAnswer() {
			continue
		}
		if p.ParentID == nil || p.OwnerUserID == nil {
			stats.SkippedIncomplete++
			continue
		}
		asker, ok := askers[*p.ParentID]
		if !ok {
			stats.SkippedUnresolved++
			continue
		}
		answerer := *p.OwnerUserID
		if answerer == asker {
			stats.SkippedSelf++
			continue
		}
		added, err := ig.AddEdge(answerer, asker)
		if err != nil {
			return stats, fmt.Errorf("answer %d: %w", p.ID, err)
		}
		if added {
			stats.Added++
		} else {
			stats.Duplicates++
		}
	}
	return stats, nil
}

// AddCommentEdges derives comment interactions: for every comment on a
// known post, add a directed edge commenter -> post owner. Comments missing
// their post or author reference, comments on unknown or ownerless posts,
// and comments on the commenter's own post are skipped.
func AddCommentEdges(ig *InteractionGraph, comments []*models.Comment, posts []*models.Post) (EdgeStats, error) {
	var stats EdgeStats

	owners := make(map[int64]int64)
	for _, p := range posts {
		if p.OwnerUserID != nil {
			owners[p.ID] = *p.OwnerUserID
		}
	}

	for _, c := range comments {
		if c.PostID == nil || c.UserID == nil {
			stats.SkippedIncomplete++
			continue
		}
		owner, ok := owners[*c.PostID]
		if !ok {
			stats.SkippedUnresolved++
			continue
		}
		commenter := *c.UserID
		if commenter == owner {
			stats.SkippedSelf++
			continue
		}
		added, err := ig.AddEdge(commenter, owner)
		if err != nil {
			return stats, fmt.Errorf("comment %d: %w", c.ID, err)
		}
		if added {
			stats.Added++
		} else {
			stats.Duplicates++
		}
	}
	return stats, nil
}
