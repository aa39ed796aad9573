package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"civictrack-be/models"
	"civictrack-be/storage"
	authUtils "civictrack-be/utils"
)

type AuthController struct {
	store storage.Storage
}

func NewAuthController(store storage.Storage) *AuthController {
	return &AuthController{store: store}
}

// RegisterUser handles user registration
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input models.InsertUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "Invalid user data", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if existing, err := ac.store.GetUserByUsername(ctx, input.Username); err != nil {
		log.Println("Error checking existing username:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	} else if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username is already taken"})
		return
	}

	if existing, err := ac.store.GetUserByEmail(ctx, input.Email); err != nil {
		log.Println("Error checking existing email:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	} else if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}
	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	created, err := ac.store.CreateUser(ctx, user)
	if err != nil {
		log.Println("Error creating user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// LoginUser handles user login
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "Invalid credentials", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := ac.store.GetUserByEmail(ctx, input.Email)
	if err != nil {
		log.Println("Error fetching user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}
	if user == nil || !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken(user.ID)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	environment := os.Getenv("GO_ENV")
	cookie := &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		MaxAge:   3600,
		Path:     "/",
		Secure:   environment == "production",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(c.Writer, cookie)

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"token":     token,
		"createdAt": user.CreatedAt,
	})
}

// GetMe retrieves the authenticated user's information
func (ac *AuthController) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := ac.store.GetUser(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
