package models

import (
	"time"
)

// Post type discriminator values from the posts dump.
const (
	PostTypeQuestion int64 = 1
	PostTypeAnswer   int64 = 2
)

// Post represents one question or answer row from the posts dump.
// ParentId is present only on answers and points to the parent question.
// OwnerUserId may be absent (deleted or community-owned posts).
type Post struct {
	ID               int64     `json:"id" db:"id"`
	PostTypeID       int64     `json:"post_type_id" db:"post_type_id"`
	ParentID         *int64    `json:"parent_id" db:"parent_id"`
	AcceptedAnswerID *int64    `json:"accepted_answer_id" db:"accepted_answer_id"`
	CreationDate     time.Time `json:"creation_date" db:"creation_date"`
	Score            int64     `json:"score" db:"score"`
	ViewCount        int64     `json:"view_count" db:"view_count"`
	Body             string    `json:"body" db:"body"`
	OwnerUserID      *int64    `json:"owner_user_id" db:"owner_user_id"`
	LastActivityDate time.Time `json:"last_activity_date" db:"last_activity_date"`
	Title            string    `json:"title" db:"title"`
	Tags             string    `json:"tags" db:"tags"`
	AnswerCount      int64     `json:"answer_count" db:"answer_count"`
	CommentCount     int64     `json:"comment_count" db:"comment_count"`
}

// IsQuestion reports whether the post is a question.
func (p *Post) IsQuestion() bool { return p.PostTypeID == PostTypeQuestion }

// IsAnswer reports whether the post is an answer.
func (p *Post) IsAnswer() bool { return p.PostTypeID == PostTypeAnswer }

// PostCSV represents a post record from a CSV shard before parsing
type PostCSV struct {
	ID               string `csv:"id"`
	PostTypeID       string `csv:"posttypeid"`
	ParentID         string `csv:"parentid"`
	AcceptedAnswerID string `csv:"acceptedanswerid"`
	CreationDate     string `csv:"creationdate"`
	Score            string `csv:"score"`
	ViewCount        string `csv:"viewcount"`
	Body             string `csv:"body"`
	OwnerUserID      string `csv:"owneruserid"`
	LastActivityDate string `csv:"lastactivitydate"`
	Title            string `csv:"title"`
	Tags             string `csv:"tags"`
	AnswerCount      string `csv:"answercount"`
	CommentCount     string `csv:"commentcount"`
}
