package models

import (
	"time"
)

// Comment represents one comment row from the comments dump.
// PostId and UserId may be absent (deleted posts or users).
type Comment struct {
	ID           int64     `json:"id" db:"id"`
	PostID       *int64    `json:"post_id" db:"post_id"`
	Score        int64     `json:"score" db:"score"`
	Text         string    `json:"text" db:"text"`
	CreationDate time.Time `json:"creation_date" db:"creation_date"`
	UserID       *int64    `json:"user_id" db:"user_id"`
}

// CommentCSV represents a comment record from a CSV shard before parsing
type CommentCSV struct {
	ID           string `csv:"id"`
	PostID       string `csv:"postid"`
	Score        string `csv:"score"`
	Text         string `csv:"text"`
	CreationDate string `csv:"creationdate"`
	UserID       string `csv:"userid"`
}
