package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"civictrack-be/models"
	"civictrack-be/storage"
)

func floatPtr(f float64) *float64 { return &f }

func potholeInput() models.InsertIssue {
	return models.InsertIssue{
		Title:       "Pothole on Main St",
		Description: "Deep pothole near the crosswalk",
		Category:    "roads",
		Latitude:    floatPtr(40.0),
		Longitude:   floatPtr(-74.0),
	}
}

func TestCreateIssueDefaults(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	issue, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)
	require.NotEmpty(t, issue.ID)
	require.Equal(t, models.Reported, issue.Status)
	require.Equal(t, 0, issue.Upvotes)
	require.Equal(t, 0, issue.FlagCount)
	require.False(t, issue.IsHidden)

	history, err := store.GetStatusHistoryByIssueID(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Issue reported", history[0].Description)
	require.Equal(t, issue.Status, history[0].Status)
}

func TestGetIssueRoundTrip(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	created, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	got, err := store.GetIssue(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	missing, err := store.GetIssue(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateIssueStatusAppendsHistory(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	issue, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := store.UpdateIssueStatus(ctx, issue.ID, models.InProgress)
	require.NoError(t, err)
	require.Equal(t, models.InProgress, updated.Status)
	require.True(t, updated.UpdatedAt.After(issue.UpdatedAt))

	history, err := store.GetStatusHistoryByIssueID(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "Issue reported", history[0].Description)
	require.Equal(t, "Status changed to in-progress", history[1].Description)
	require.True(t, !history[1].CreatedAt.Before(history[0].CreatedAt))

	missing, err := store.UpdateIssueStatus(ctx, "nope", models.Resolved)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestFlagAutoHide(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	issue, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		flagged, err := store.IncrementFlagCount(ctx, issue.ID)
		require.NoError(t, err)
		require.Equal(t, i, flagged.FlagCount)
		require.False(t, flagged.IsHidden)
	}

	flagged, err := store.IncrementFlagCount(ctx, issue.ID)
	require.NoError(t, err)
	require.Equal(t, 3, flagged.FlagCount)
	require.True(t, flagged.IsHidden)

	// hiding is monotonic
	flagged, err = store.IncrementFlagCount(ctx, issue.ID)
	require.NoError(t, err)
	require.Equal(t, 4, flagged.FlagCount)
	require.True(t, flagged.IsHidden)

	issues, err := store.GetIssuesByFilter(ctx, storage.IssueFilter{Category: "roads"})
	require.NoError(t, err)
	require.Empty(t, issues)
}

func TestGetIssuesByFilterConjunction(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	roads, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	garbage := potholeInput()
	garbage.Category = "garbage"
	_, err = store.CreateIssue(ctx, garbage)
	require.NoError(t, err)

	resolvedRoads := potholeInput()
	resolvedRoads.Status = "resolved"
	_, err = store.CreateIssue(ctx, resolvedRoads)
	require.NoError(t, err)

	all, err := store.GetIssuesByFilter(ctx, storage.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	filtered, err := store.GetIssuesByFilter(ctx, storage.IssueFilter{Category: "roads", Status: "reported"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, roads.ID, filtered[0].ID)
}

func TestGetIssuesByFilterRadius(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	near, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	far := potholeInput()
	far.Latitude = floatPtr(41.0) // roughly 111km north
	_, err = store.CreateIssue(ctx, far)
	require.NoError(t, err)

	issues, err := store.GetIssuesByFilter(ctx, storage.IssueFilter{
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-74.0),
		Radius:    floatPtr(5.0),
	})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, near.ID, issues[0].ID)

	// without a radius the coordinates are ignored
	issues, err = store.GetIssuesByFilter(ctx, storage.IssueFilter{
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-74.0),
	})
	require.NoError(t, err)
	require.Len(t, issues, 2)
}

func TestUpvoteCounter(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	issue, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	up, err := store.IncrementUpvotes(ctx, issue.ID)
	require.NoError(t, err)
	require.Equal(t, 1, up.Upvotes)

	down, err := store.DecrementUpvotes(ctx, issue.ID)
	require.NoError(t, err)
	require.Equal(t, 0, down.Upvotes)

	// floor at zero
	down, err = store.DecrementUpvotes(ctx, issue.ID)
	require.NoError(t, err)
	require.Equal(t, 0, down.Upvotes)
}

func TestVoteUniquenessPerPair(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	issue, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	first, err := store.CreateVote(ctx, issue.ID, "user-a", models.Upvote)
	require.NoError(t, err)

	second, err := store.CreateVote(ctx, issue.ID, "user-a", models.Downvote)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	got, err := store.GetVoteByUserAndIssue(ctx, "user-a", issue.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, got.ID)
	require.Equal(t, models.Downvote, got.Type)

	deleted, err := store.DeleteVote(ctx, "user-a", issue.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = store.DeleteVote(ctx, "user-a", issue.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	got, err = store.GetVoteByUserAndIssue(ctx, "user-a", issue.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFollowToggle(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	issue, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	follow, err := store.CreateFollow(ctx, issue.ID, "user-a")
	require.NoError(t, err)

	// creating again returns the existing record
	again, err := store.CreateFollow(ctx, issue.ID, "user-a")
	require.NoError(t, err)
	require.Equal(t, follow.ID, again.ID)

	deleted, err := store.DeleteFollow(ctx, "user-a", issue.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	got, err := store.GetFollowByUserAndIssue(ctx, "user-a", issue.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCommentsLifecycle(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	issue, err := store.CreateIssue(ctx, potholeInput())
	require.NoError(t, err)

	comment, err := store.CreateComment(ctx, issue.ID, models.InsertComment{Content: "test"})
	require.NoError(t, err)
	require.Equal(t, 0, comment.Likes)

	got, err := store.GetCommentsByIssueID(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, *comment, got[0])

	liked, err := store.LikeComment(ctx, comment.ID)
	require.NoError(t, err)
	require.Equal(t, 1, liked.Likes)

	for i := 0; i < 3; i++ {
		_, err = store.FlagComment(ctx, comment.ID)
		require.NoError(t, err)
	}

	got, err = store.GetCommentsByIssueID(ctx, issue.ID)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUserRoundTrip(t *testing.T) {
	store := storage.NewMemStorage()
	ctx := context.Background()

	created, err := store.CreateUser(ctx, models.User{Username: "jane", Email: "jane@example.com", Password: "hash"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.IsVerified)

	got, err := store.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	byName, err := store.GetUserByUsername(ctx, "jane")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)

	byEmail, err := store.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	missing, err := store.GetUserByUsername(ctx, "john")
	require.NoError(t, err)
	require.Nil(t, missing)
}
