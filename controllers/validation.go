package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// requestContext bounds every storage call made by a handler.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

// respondValidationError writes a 400 listing every violated field; one
// invalid field fails the whole payload.
func respondValidationError(c *gin.Context, message string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: failed on '%s'", fe.Field(), fe.Tag()))
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "errors": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": message, "errors": []string{err.Error()}})
}
