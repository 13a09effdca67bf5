package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/forum-graph-exporter/internal/database"
	"github.com/forum-graph-exporter/internal/models"
)

// PostgresSource loads the three tables from a PostgreSQL database that
// holds the imported dump (tables users, posts, comments with the dump's
// column names in snake_case).
type PostgresSource struct {
	db  *database.DB
	log zerolog.Logger
}

// NewPostgresSource creates a Postgres-backed table source
func NewPostgresSource(db *database.DB, log zerolog.Logger) *PostgresSource {
	return &PostgresSource{
		db:  db,
		log: log.With().Str("component", "dataset").Str("source", "postgres").Logger(),
	}
}

// LoadUsers loads the full users table
func (s *PostgresSource) LoadUsers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, reputation, creation_date, last_access_date, views,
		       up_votes, down_votes, post_count, comment_count,
		       accepted_answer_count, answer_count, total_activity,
		       avg_answer_score, avg_post_score, accepted_answer_fraction,
		       answer_sentiment
		FROM users
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Reputation, &user.CreationDate, &user.LastAccessDate,
			&user.Views, &user.UpVotes, &user.DownVotes, &user.PostCount,
			&user.CommentCount, &user.AcceptedAnswerCount, &user.AnswerCount,
			&user.TotalActivity, &user.AvgAnswerScore, &user.AvgPostScore,
			&user.AcceptedAnswerFraction, &user.AnswerSentiment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	s.log.Info().Int("rows", len(users)).Msg("Users loaded")
	return users, nil
}

// LoadPosts loads the full posts table
func (s *PostgresSource) LoadPosts(ctx context.Context) ([]*models.Post, error) {
	query := `
		SELECT id, post_type_id, parent_id, accepted_answer_id, creation_date,
		       score, view_count, COALESCE(body, ''), owner_user_id,
		       last_activity_date, COALESCE(title, ''), COALESCE(tags, ''),
		       answer_count, comment_count
		FROM posts
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		var parentID, acceptedID, ownerID sql.NullInt64
		if err := rows.Scan(
			&post.ID, &post.PostTypeID, &parentID, &acceptedID,
			&post.CreationDate, &post.Score, &post.ViewCount, &post.Body,
			&ownerID, &post.LastActivityDate, &post.Title, &post.Tags,
			&post.AnswerCount, &post.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		post.ParentID = nullableInt(parentID)
		post.AcceptedAnswerID = nullableInt(acceptedID)
		post.OwnerUserID = nullableInt(ownerID)
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	s.log.Info().Int("rows", len(posts)).Msg("Posts loaded")
	return posts, nil
}

// LoadComments loads the full comments table
func (s *PostgresSource) LoadComments(ctx context.Context) ([]*models.Comment, error) {
	query := `
		SELECT id, post_id, score, COALESCE(text, ''), creation_date, user_id
		FROM comments
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		var postID, userID sql.NullInt64
		if err := rows.Scan(
			&comment.ID, &postID, &comment.Score, &comment.Text,
			&comment.CreationDate, &userID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comment.PostID = nullableInt(postID)
		comment.UserID = nullableInt(userID)
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}

	s.log.Info().Int("rows", len(comments)).Msg("Comments loaded")
	return comments, nil
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
