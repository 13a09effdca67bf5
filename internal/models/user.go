package models

import (
	"time"
)

// User represents one forum member row from the users dump.
// Id is globally unique and becomes the graph node key.
type User struct {
	ID                     int64     `json:"id" db:"id"`
	Reputation             int64     `json:"reputation" db:"reputation"`
	CreationDate           time.Time `json:"creation_date" db:"creation_date"`
	LastAccessDate         time.Time `json:"last_access_date" db:"last_access_date"`
	Views                  int64     `json:"views" db:"views"`
	UpVotes                int64     `json:"up_votes" db:"up_votes"`
	DownVotes              int64     `json:"down_votes" db:"down_votes"`
	PostCount              int64     `json:"post_count" db:"post_count"`
	CommentCount           int64     `json:"comment_count" db:"comment_count"`
	AcceptedAnswerCount    int64     `json:"accepted_answer_count" db:"accepted_answer_count"`
	AnswerCount            int64     `json:"answer_count" db:"answer_count"`
	TotalActivity          int64     `json:"total_activity" db:"total_activity"`
	AvgAnswerScore         float64   `json:"avg_answer_score" db:"avg_answer_score"`
	AvgPostScore           float64   `json:"avg_post_score" db:"avg_post_score"`
	AcceptedAnswerFraction float64   `json:"accepted_answer_fraction" db:"accepted_answer_fraction"`
	AnswerSentiment        float64   `json:"answer_sentiment" db:"answer_sentiment"`
}

// Attributes returns every column except Id as a node attribute bag,
// keyed by the dump's column names.
func (u *User) Attributes() map[string]any {
	return map[string]any{
		"Reputation":             u.Reputation,
		"CreationDate":           u.CreationDate,
		"LastAccessDate":         u.LastAccessDate,
		"Views":                  u.Views,
		"UpVotes":                u.UpVotes,
		"DownVotes":              u.DownVotes,
		"PostCount":              u.PostCount,
		"CommentCount":           u.CommentCount,
		"AcceptedAnswerCount":    u.AcceptedAnswerCount,
		"AnswerCount":            u.AnswerCount,
		"TotalActivity":          u.TotalActivity,
		"AvgAnswerScore":         u.AvgAnswerScore,
		"AvgPostScore":           u.AvgPostScore,
		"AcceptedAnswerFraction": u.AcceptedAnswerFraction,
		"AnswerSentiment":        u.AnswerSentiment,
	}
}

// UserCSV represents a user record from a CSV shard before parsing
type UserCSV struct {
	ID                     string `csv:"id"`
	Reputation             string `csv:"reputation"`
	CreationDate           string `csv:"creationdate"`
	LastAccessDate         string `csv:"lastaccessdate"`
	Views                  string `csv:"views"`
	UpVotes                string `csv:"upvotes"`
	DownVotes              string `csv:"downvotes"`
	PostCount              string `csv:"postcount"`
	CommentCount           string `csv:"commentcount"`
	AcceptedAnswerCount    string `csv:"acceptedanswercount"`
	AnswerCount            string `csv:"answercount"`
	TotalActivity          string `csv:"totalactivity"`
	AvgAnswerScore         string `csv:"avganswerscore"`
	AvgPostScore           string `csv:"avgpostscore"`
	AcceptedAnswerFraction string `csv:"acceptedanswerfraction"`
	AnswerSentiment        string `csv:"answersentiment"`
}
