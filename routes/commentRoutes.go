package routes

import (
	"github.com/gin-gonic/gin"

	"civictrack-be/controllers"
)

// CommentRoutes sets up the comment moderation routes
func CommentRoutes(r *gin.Engine, cc *controllers.CommentController) {
	comments := r.Group("/api/comments")
	{
		comments.POST("/:id/like", cc.LikeComment)
		comments.POST("/:id/flag", cc.FlagComment)
	}
}
