package storage

import (
	"context"
	"math"

	"civictrack-be/models"
)

// IssueFilter is an exact-match conjunction over the listed axes. Empty
// string means no filtering on that axis. Radius is in kilometers and only
// applies when latitude, longitude and radius are all set.
type IssueFilter struct {
	Category  string
	Status    string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
}

// Storage is the persistence seam for all CivicTrack entities. Every
// lookup signals a missing record with a nil value and a nil error; errors
// are reserved for backend failures. Implementations must guarantee at
// most one vote and one follow per (user, issue) pair.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Issues. CreateIssue also records the initial "Issue reported" status
	// history entry; UpdateIssueStatus appends a transition entry.
	CreateIssue(ctx context.Context, in models.InsertIssue) (*models.Issue, error)
	GetIssue(ctx context.Context, id string) (*models.Issue, error)
	GetIssuesByFilter(ctx context.Context, f IssueFilter) ([]models.Issue, error)
	UpdateIssueStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error)
	IncrementUpvotes(ctx context.Context, id string) (*models.Issue, error)
	DecrementUpvotes(ctx context.Context, id string) (*models.Issue, error)
	IncrementFlagCount(ctx context.Context, id string) (*models.Issue, error)

	// Comments
	GetCommentsByIssueID(ctx context.Context, issueID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, issueID string, in models.InsertComment) (*models.Comment, error)
	LikeComment(ctx context.Context, id string) (*models.Comment, error)
	FlagComment(ctx context.Context, id string) (*models.Comment, error)

	// Votes
	GetVoteByUserAndIssue(ctx context.Context, userID, issueID string) (*models.Vote, error)
	CreateVote(ctx context.Context, issueID, userID string, voteType models.VoteType) (*models.Vote, error)
	DeleteVote(ctx context.Context, userID, issueID string) (bool, error)

	// Status history, returned ascending by creation time
	GetStatusHistoryByIssueID(ctx context.Context, issueID string) ([]models.StatusHistory, error)
	CreateStatusHistory(ctx context.Context, issueID string, status models.IssueStatus, description string) (*models.StatusHistory, error)

	// Follows
	GetFollowByUserAndIssue(ctx context.Context, userID, issueID string) (*models.Follow, error)
	CreateFollow(ctx context.Context, issueID, userID string) (*models.Follow, error)
	DeleteFollow(ctx context.Context, userID, issueID string) (bool, error)
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (f IssueFilter) matches(issue models.Issue) bool {
	if issue.IsHidden {
		return false
	}
	if f.Category != "" && string(issue.Category) != f.Category {
		return false
	}
	if f.Status != "" && string(issue.Status) != f.Status {
		return false
	}
	if f.Latitude != nil && f.Longitude != nil && f.Radius != nil {
		if haversineKm(*f.Latitude, *f.Longitude, issue.Latitude, issue.Longitude) > *f.Radius {
			return false
		}
	}
	return true
}
