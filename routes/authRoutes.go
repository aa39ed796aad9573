package routes

import (
	"github.com/gin-gonic/gin"

	"civictrack-be/controllers"
	"civictrack-be/middlewares"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ac.RegisterUser)
		auth.POST("/login", ac.LoginUser)
		auth.GET("/me", middlewares.AuthMiddleware(), ac.GetMe)
	}
}
