// Package filter restricts the dump tables to the active user population
// before graph construction. Activity is the combined count of owned posts
// and authored comments measured against a configured threshold, and the
// projections guarantee that every edge the builder later derives connects
// two users that exist as graph nodes.
package filter

import (
	"github.com/forum-graph-exporter/internal/models"
)

// UserSet is a set of user identifiers.
type UserSet map[int64]struct{}

// Contains reports whether id is in the set.
func (s UserSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// ActiveUsers computes the set of user ids whose combined post and comment
// count is at least threshold. A user missing from either table counts zero
// for that table. With threshold <= 0 every user in the users table
// qualifies, including users with no activity at all, so the full user id
// set is returned.
func ActiveUsers(users []*models.User, posts []*models.Post, comments []*models.Comment, threshold int) UserSet {
	active := make(UserSet)
	if threshold <= 0 {
		for _, u := range users {
			active[u.ID] = struct{}{}
		}
		return active
	}

	counts := make(map[int64]int)
	for _, p := range posts {
		if p.OwnerUserID != nil {
			counts[*p.OwnerUserID]++
		}
	}
	for _, c := range comments {
		if c.UserID != nil {
			counts[*c.UserID]++
		}
	}

	// Only restrict ids already present in the users table; ids appearing
	// solely in posts/comments never become nodes.
	for _, u := range users {
		if counts[u.ID] >= threshold {
			active[u.ID] = struct{}{}
		}
	}
	return active
}

// FilterUsers keeps only users in the active set.
func FilterUsers(users []*models.User, active UserSet) []*models.User {
	kept := make([]*models.User, 0, len(users))
	for _, u := range users {
		if active.Contains(u.ID) {
			kept = append(kept, u)
		}
	}
	return kept
}

// FilterPosts keeps only posts owned by an active user. Posts without an
// owner are dropped; they can never contribute a valid edge endpoint.
func FilterPosts(posts []*models.Post, active UserSet) []*models.Post {
	kept := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p.OwnerUserID != nil && active.Contains(*p.OwnerUserID) {
			kept = append(kept, p)
		}
	}
	return kept
}

// FilterComments keeps only comments authored by an active user on a post
// that survived FilterPosts. Both conditions are required so that comment
// edges always connect two active users.
func FilterComments(comments []*models.Comment, active UserSet, activePosts []*models.Post) []*models.Comment {
	postIDs := make(map[int64]struct{}, len(activePosts))
	for _, p := range activePosts {
		postIDs[p.ID] = struct{}{}
	}

	kept := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.UserID == nil || !active.Contains(*c.UserID) {
			continue
		}
		if c.PostID == nil {
			continue
		}
		if _, ok := postIDs[*c.PostID]; !ok {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
