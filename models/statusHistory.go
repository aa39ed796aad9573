package models

import "time"

// StatusHistory is an append-only audit entry for an issue's status
// transitions. Entries are never mutated or deleted.
type StatusHistory struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	IssueID     string      `bson:"issueId" json:"issueId"`
	Status      IssueStatus `bson:"status" json:"status"`
	Description string      `bson:"description" json:"description"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
}
