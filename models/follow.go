package models

import "time"

// Follow is a user's subscription to updates on an issue. The storage layer
// guarantees at most one follow per (user, issue) pair.
type Follow struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	IssueID   string    `bson:"issueId" json:"issueId"`
	UserID    string    `bson:"userId" json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
