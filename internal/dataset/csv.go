package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forum-graph-exporter/internal/config"
	"github.com/forum-graph-exporter/internal/models"
)

// CSVSource loads each table from one or more CSV shards selected by a
// glob under the data directory. Shards are concatenated in sorted
// filename order; every shard carries its own header row.
type CSVSource struct {
	cfg config.DatasetConfig
	log zerolog.Logger
}

// NewCSVSource creates a CSV-backed table source
func NewCSVSource(cfg config.DatasetConfig, log zerolog.Logger) *CSVSource {
	return &CSVSource{
		cfg: cfg,
		log: log.With().Str("component", "dataset").Str("source", "csv").Logger(),
	}
}

// LoadUsers loads and parses all user shards
func (s *CSVSource) LoadUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	dropped := 0

	err := s.readShards(ctx, s.cfg.UsersGlob, func(record []string, headerMap map[string]int, file string, line int) error {
		row := &models.UserCSV{
			ID:                     getField(record, headerMap, "id"),
			Reputation:             getField(record, headerMap, "reputation"),
			CreationDate:           getField(record, headerMap, "creationdate"),
			LastAccessDate:         getField(record, headerMap, "lastaccessdate"),
			Views:                  getField(record, headerMap, "views"),
			UpVotes:                getField(record, headerMap, "upvotes"),
			DownVotes:              getField(record, headerMap, "downvotes"),
			PostCount:              getField(record, headerMap, "postcount"),
			CommentCount:           getField(record, headerMap, "commentcount"),
			AcceptedAnswerCount:    getField(record, headerMap, "acceptedanswercount"),
			AnswerCount:            getField(record, headerMap, "answercount"),
			TotalActivity:          getField(record, headerMap, "totalactivity"),
			AvgAnswerScore:         getField(record, headerMap, "avganswerscore"),
			AvgPostScore:           getField(record, headerMap, "avgpostscore"),
			AcceptedAnswerFraction: getField(record, headerMap, "acceptedanswerfraction"),
			AnswerSentiment:        getField(record, headerMap, "answersentiment"),
		}

		user, err := convertCSVToUser(row)
		if err != nil {
			if s.cfg.Strict {
				return fmt.Errorf("%s:%d: %w", file, line, err)
			}
			dropped++
			return nil
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("rows", len(users)).Int("dropped", dropped).Msg("Users loaded")
	return users, nil
}

// LoadPosts loads and parses all post shards
func (s *CSVSource) LoadPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	dropped := 0

	err := s.readShards(ctx, s.cfg.PostsGlob, func(record []string, headerMap map[string]int, file string, line int) error {
		row := &models.PostCSV{
			ID:               getField(record, headerMap, "id"),
			PostTypeID:       getField(record, headerMap, "posttypeid"),
			ParentID:         getField(record, headerMap, "parentid"),
			AcceptedAnswerID: getField(record, headerMap, "acceptedanswerid"),
			CreationDate:     getField(record, headerMap, "creationdate"),
			Score:            getField(record, headerMap, "score"),
			ViewCount:        getField(record, headerMap, "viewcount"),
			Body:             getField(record, headerMap, "body"),
			OwnerUserID:      getField(record, headerMap, "owneruserid"),
			LastActivityDate: getField(record, headerMap, "lastactivitydate"),
			Title:            getField(record, headerMap, "title"),
			Tags:             getField(record, headerMap, "tags"),
			AnswerCount:      getField(record, headerMap, "answercount"),
			CommentCount:     getField(record, headerMap, "commentcount"),
		}

		post, err := convertCSVToPost(row)
		if err != nil {
			if s.cfg.Strict {
				return fmt.Errorf("%s:%d: %w", file, line, err)
			}
			dropped++
			return nil
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("rows", len(posts)).Int("dropped", dropped).Msg("Posts loaded")
	return posts, nil
}

// LoadComments loads and parses all comment shards
func (s *CSVSource) LoadComments(ctx context.Context) ([]*models.Comment, error) {
	var comments []*models.Comment
	dropped := 0

	err := s.readShards(ctx, s.cfg.CommentsGlob, func(record []string, headerMap map[string]int, file string, line int) error {
		row := &models.CommentCSV{
			ID:           getField(record, headerMap, "id"),
			PostID:       getField(record, headerMap, "postid"),
			Score:        getField(record, headerMap, "score"),
			Text:         getField(record, headerMap, "text"),
			CreationDate: getField(record, headerMap, "creationdate"),
			UserID:       getField(record, headerMap, "userid"),
		}

		comment, err := convertCSVToComment(row)
		if err != nil {
			if s.cfg.Strict {
				return fmt.Errorf("%s:%d: %w", file, line, err)
			}
			dropped++
			return nil
		}
		comments = append(comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("rows", len(comments)).Int("dropped", dropped).Msg("Comments loaded")
	return comments, nil
}

// readShards resolves the glob, then streams every record of every shard
// through handle. Each shard has its own header; column order may differ
// between shards.
func (s *CSVSource) readShards(ctx context.Context, glob string, handle func(record []string, headerMap map[string]int, file string, line int) error) error {
	pattern := filepath.Join(s.cfg.DataDir, glob)
	shards, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("bad shard glob %q: %w", pattern, err)
	}
	if len(shards) == 0 {
		return fmt.Errorf("no input files match %q", pattern)
	}
	sort.Strings(shards)

	for _, shard := range shards {
		if err := s.readShard(ctx, shard, handle); err != nil {
			return err
		}
	}
	return nil
}

func (s *CSVSource) readShard(ctx context.Context, path string, handle func(record []string, headerMap map[string]int, file string, line int) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open shard: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Read header
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	headerMap := make(map[string]int)
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	lineNum := 1 // Start after header
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s:%d: %w", path, lineNum+1, err)
		}
		lineNum++

		// Respect context cancellation for large dumps
		if lineNum%10000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if err := handle(record, headerMap, path, lineNum); err != nil {
			return err
		}
	}

	s.log.Debug().Str("shard", path).Int("rows", lineNum-1).Msg("Shard read")
	return nil
}

// Helper functions

func getField(record []string, headerMap map[string]int, field string) string {
	if idx, ok := headerMap[field]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

// parseOptionalTime maps a blank cell to the zero time.
func parseOptionalTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return parseTime(s)
}

func convertCSVToUser(row *models.UserCSV) (*models.User, error) {
	if row.ID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	id, err := parseInt(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", row.ID, err)
	}

	user := &models.User{ID: id}

	ints := []struct {
		dst *int64
		src string
	}{
		{&user.Reputation, row.Reputation},
		{&user.Views, row.Views},
		{&user.UpVotes, row.UpVotes},
		{&user.DownVotes, row.DownVotes},
		{&user.PostCount, row.PostCount},
		{&user.CommentCount, row.CommentCount},
		{&user.AcceptedAnswerCount, row.AcceptedAnswerCount},
		{&user.AnswerCount, row.AnswerCount},
		{&user.TotalActivity, row.TotalActivity},
	}
	for _, f := range ints {
		if *f.dst, err = parseInt(f.src); err != nil {
			return nil, fmt.Errorf("invalid numeric column for user %d: %w", id, err)
		}
	}

	floats := []struct {
		dst *float64
		src string
	}{
		{&user.AvgAnswerScore, row.AvgAnswerScore},
		{&user.AvgPostScore, row.AvgPostScore},
		{&user.AcceptedAnswerFraction, row.AcceptedAnswerFraction},
		{&user.AnswerSentiment, row.AnswerSentiment},
	}
	for _, f := range floats {
		if *f.dst, err = parseFloat(f.src); err != nil {
			return nil, fmt.Errorf("invalid numeric column for user %d: %w", id, err)
		}
	}

	if user.CreationDate, err = parseOptionalTime(row.CreationDate); err != nil {
		return nil, fmt.Errorf("invalid CreationDate for user %d: %w", id, err)
	}
	if user.LastAccessDate, err = parseOptionalTime(row.LastAccessDate); err != nil {
		return nil, fmt.Errorf("invalid LastAccessDate for user %d: %w", id, err)
	}

	return user, nil
}

func convertCSVToPost(row *models.PostCSV) (*models.Post, error) {
	if row.ID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	id, err := parseInt(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post id %q: %w", row.ID, err)
	}

	post := &models.Post{ID: id, Body: row.Body, Title: row.Title, Tags: row.Tags}

	if post.PostTypeID, err = parseInt(row.PostTypeID); err != nil {
		return nil, fmt.Errorf("invalid PostTypeId for post %d: %w", id, err)
	}
	if post.ParentID, err = parseNullableInt(row.ParentID); err != nil {
		return nil, fmt.Errorf("invalid ParentId for post %d: %w", id, err)
	}
	if post.AcceptedAnswerID, err = parseNullableInt(row.AcceptedAnswerID); err != nil {
		return nil, fmt.Errorf("invalid AcceptedAnswerId for post %d: %w", id, err)
	}
	if post.OwnerUserID, err = parseNullableInt(row.OwnerUserID); err != nil {
		return nil, fmt.Errorf("invalid OwnerUserId for post %d: %w", id, err)
	}
	if post.Score, err = parseInt(row.Score); err != nil {
		return nil, fmt.Errorf("invalid Score for post %d: %w", id, err)
	}
	if post.ViewCount, err = parseInt(row.ViewCount); err != nil {
		return nil, fmt.Errorf("invalid ViewCount for post %d: %w", id, err)
	}
	if post.AnswerCount, err = parseInt(row.AnswerCount); err != nil {
		return nil, fmt.Errorf("invalid AnswerCount for post %d: %w", id, err)
	}
	if post.CommentCount, err = parseInt(row.CommentCount); err != nil {
		return nil, fmt.Errorf("invalid CommentCount for post %d: %w", id, err)
	}
	if post.CreationDate, err = parseOptionalTime(row.CreationDate); err != nil {
		return nil, fmt.Errorf("invalid CreationDate for post %d: %w", id, err)
	}
	if post.LastActivityDate, err = parseOptionalTime(row.LastActivityDate); err != nil {
		return nil, fmt.Errorf("invalid LastActivityDate for post %d: %w", id, err)
	}

	return post, nil
}

func convertCSVToComment(row *models.CommentCSV) (*models.Comment, error) {
	if row.ID == "" {
		return nil, fmt.Errorf("comment id is required")
	}
	id, err := parseInt(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment id %q: %w", row.ID, err)
	}

	comment := &models.Comment{ID: id, Text: row.Text}

	if comment.PostID, err = parseNullableInt(row.PostID); err != nil {
		return nil, fmt.Errorf("invalid PostId for comment %d: %w", id, err)
	}
	if comment.UserID, err = parseNullableInt(row.UserID); err != nil {
		return nil, fmt.Errorf("invalid UserId for comment %d: %w", id, err)
	}
	if comment.Score, err = parseInt(row.Score); err != nil {
		return nil, fmt.Errorf("invalid Score for comment %d: %w", id, err)
	}
	if comment.CreationDate, err = parseOptionalTime(row.CreationDate); err != nil {
		return nil, fmt.Errorf("invalid CreationDate for comment %d: %w", id, err)
	}

	return comment, nil
}
