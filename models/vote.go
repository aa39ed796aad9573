package models

import "time"

// VoteType enum
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// Vote represents a user's vote on an issue. The storage layer guarantees
// at most one vote per (user, issue) pair.
type Vote struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	IssueID   string    `bson:"issueId" json:"issueId"`
	UserID    string    `bson:"userId" json:"userId"`
	Type      VoteType  `bson:"type" json:"type"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
