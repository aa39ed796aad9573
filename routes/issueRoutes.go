package routes

import (
	"github.com/gin-gonic/gin"

	"civictrack-be/controllers"
)

// IssueRoutes sets up the issue routes. createMiddleware is applied to
// issue creation only (the Redis rate limiter, when configured).
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, cc *controllers.CommentController, createMiddleware ...gin.HandlerFunc) {
	createHandlers := append([]gin.HandlerFunc{}, createMiddleware...)
	createHandlers = append(createHandlers, ic.CreateIssue)

	issues := r.Group("/api/issues")
	{
		issues.GET("", ic.ListIssues)
		issues.POST("", createHandlers...)
		issues.GET("/:id", ic.GetIssue)
		issues.PATCH("/:id/status", ic.UpdateIssueStatus)
		issues.POST("/:id/vote", ic.VoteOnIssue)
		issues.POST("/:id/flag", ic.FlagIssue)
		issues.GET("/:id/status-history", ic.GetStatusHistory)
		issues.POST("/:id/follow", ic.ToggleFollow)
		issues.GET("/:id/comments", cc.ListComments)
		issues.POST("/:id/comments", cc.CreateComment)
	}
}
