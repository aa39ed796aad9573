package models

import "time"

// IssueCategory enum
type IssueCategory string

const (
	Garbage  IssueCategory = "garbage"
	Water    IssueCategory = "water"
	Roads    IssueCategory = "roads"
	Traffic  IssueCategory = "traffic"
	Lighting IssueCategory = "lighting"
	Parks    IssueCategory = "parks"
	Other    IssueCategory = "other"
)

// IssueStatus enum
type IssueStatus string

const (
	Reported   IssueStatus = "reported"
	InProgress IssueStatus = "in-progress"
	Resolved   IssueStatus = "resolved"
	Flagged    IssueStatus = "flagged"
)

// FlagHideThreshold is the number of flags at which a record is hidden
// from public listings.
const FlagHideThreshold = 3

// Issue represents a civic problem reported by a citizen
type Issue struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Category    IssueCategory `bson:"category" json:"category"`
	Status      IssueStatus   `bson:"status" json:"status"`
	Latitude    float64       `bson:"latitude" json:"latitude"`
	Longitude   float64       `bson:"longitude" json:"longitude"`
	Address     *string       `bson:"address,omitempty" json:"address,omitempty"`
	Images      []string      `bson:"images" json:"images"`
	Upvotes     int           `bson:"upvotes" json:"upvotes"`
	ReporterID  *string       `bson:"reporterId,omitempty" json:"reporterId,omitempty"`
	IsAnonymous bool          `bson:"isAnonymous" json:"isAnonymous"`
	FlagCount   int           `bson:"flagCount" json:"flagCount"`
	IsHidden    bool          `bson:"isHidden" json:"isHidden"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
