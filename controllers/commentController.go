package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civictrack-be/models"
	"civictrack-be/storage"
)

type CommentController struct {
	store storage.Storage
}

func NewCommentController(store storage.Storage) *CommentController {
	return &CommentController{store: store}
}

// ListComments handles GET /api/issues/:id/comments. Hidden comments are
// never included; an unknown issue yields an empty array.
func (cc *CommentController) ListComments(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	comments, err := cc.store.GetCommentsByIssueID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /api/issues/:id/comments
func (cc *CommentController) CreateComment(c *gin.Context) {
	var input models.InsertComment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "Invalid comment data", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := cc.store.CreateComment(ctx, c.Param("id"), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// LikeComment handles POST /api/comments/:id/like
func (cc *CommentController) LikeComment(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := cc.store.LikeComment(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to like comment"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

// FlagComment handles POST /api/comments/:id/flag
func (cc *CommentController) FlagComment(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := cc.store.FlagComment(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to flag comment"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, comment)
}
