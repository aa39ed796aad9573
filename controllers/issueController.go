package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"civictrack-be/models"
	"civictrack-be/storage"
)

type IssueController struct {
	store storage.Storage
}

func NewIssueController(store storage.Storage) *IssueController {
	return &IssueController{store: store}
}

// ListIssues handles GET /api/issues with optional category, status and
// geographic radius filters. Zero matches is an empty array, never an error.
func (ic *IssueController) ListIssues(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	filter := storage.IssueFilter{}
	if v := c.Query("category"); v != "" && v != "all" {
		filter.Category = v
	}
	if v := c.Query("status"); v != "" && v != "all" {
		filter.Status = v
	}
	if f, ok := queryFloat(c, "latitude"); ok {
		filter.Latitude = &f
	}
	if f, ok := queryFloat(c, "longitude"); ok {
		filter.Longitude = &f
	}
	if f, ok := queryFloat(c, "radius"); ok {
		filter.Radius = &f
	}

	issues, err := ic.store.GetIssuesByFilter(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GetIssue handles GET /api/issues/:id
func (ic *IssueController) GetIssue(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.store.GetIssue(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch issue"})
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// CreateIssue handles POST /api/issues
func (ic *IssueController) CreateIssue(c *gin.Context) {
	var input models.InsertIssue
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "Invalid issue data", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.store.CreateIssue(ctx, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// UpdateIssueStatus handles PATCH /api/issues/:id/status
func (ic *IssueController) UpdateIssueStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required,oneof=reported in-progress resolved flagged"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "Status is required", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.store.UpdateIssueStatus(ctx, c.Param("id"), models.IssueStatus(input.Status))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update issue status"})
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// VoteOnIssue handles POST /api/issues/:id/vote. Voting again with the same
// type replaces the existing vote; the upvote counter always equals the
// number of active upvote-type votes, so removing a prior upvote decrements
// it before the new vote is counted.
func (ic *IssueController) VoteOnIssue(c *gin.Context) {
	var input models.InsertVote
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "Invalid vote data", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issueID := c.Param("id")
	issue, err := ic.store.GetIssue(ctx, issueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process vote"})
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		return
	}

	existing, err := ic.store.GetVoteByUserAndIssue(ctx, input.UserID, issueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process vote"})
		return
	}
	if existing != nil {
		if _, err := ic.store.DeleteVote(ctx, input.UserID, issueID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process vote"})
			return
		}
		if existing.Type == models.Upvote {
			if _, err := ic.store.DecrementUpvotes(ctx, issueID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process vote"})
				return
			}
		}
	}

	if _, err := ic.store.CreateVote(ctx, issueID, input.UserID, models.VoteType(input.Type)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process vote"})
		return
	}

	if models.VoteType(input.Type) == models.Upvote {
		issue, err = ic.store.IncrementUpvotes(ctx, issueID)
	} else {
		issue, err = ic.store.GetIssue(ctx, issueID)
	}
	if err != nil || issue == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process vote"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// FlagIssue handles POST /api/issues/:id/flag
func (ic *IssueController) FlagIssue(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.store.IncrementFlagCount(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to flag issue"})
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetStatusHistory handles GET /api/issues/:id/status-history
func (ic *IssueController) GetStatusHistory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := ic.store.GetStatusHistoryByIssueID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch status history"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ToggleFollow handles POST /api/issues/:id/follow
func (ic *IssueController) ToggleFollow(c *gin.Context) {
	var input models.InsertFollow
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "Invalid follow data", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issueID := c.Param("id")
	existing, err := ic.store.GetFollowByUserAndIssue(ctx, input.UserID, issueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to toggle follow"})
		return
	}

	if existing != nil {
		if _, err := ic.store.DeleteFollow(ctx, input.UserID, issueID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to toggle follow"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"following": false})
		return
	}

	if _, err := ic.store.CreateFollow(ctx, issueID, input.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to toggle follow"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": true})
}
