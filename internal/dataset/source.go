// Package dataset loads the three forum dump tables (users, posts,
// comments) from persisted tabular storage. Two sources are supported:
// sharded CSV files and a PostgreSQL database holding the same schema.
package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/forum-graph-exporter/internal/models"
)

// Source loads the three input tables. Each table is loaded fully into
// memory; the pipeline runs at a scale (tens of thousands of rows) where
// streaming is not needed.
type Source interface {
	LoadUsers(ctx context.Context) ([]*models.User, error)
	LoadPosts(ctx context.Context) ([]*models.Post, error)
	LoadComments(ctx context.Context) ([]*models.Comment, error)
}

// timeLayouts are tried in order when parsing dump timestamps. Forum data
// dumps use ISO 8601 with fractional seconds and no zone; RFC 3339 and
// plain date forms show up in re-exported data.
var timeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseNullableInt maps a blank cell to nil, mirroring SQL NULL. The dumps
// leave foreign keys blank for deleted users and orphaned rows.
func parseNullableInt(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
