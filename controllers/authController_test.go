package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"civictrack-be/models"
)

func TestRegisterLoginMe(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "jane",
		"email":    "jane@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var user models.User
	decodeInto(t, w, &user)
	require.Equal(t, "jane", user.Username)
	require.False(t, user.IsVerified)

	// duplicate username is rejected
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "jane",
		"email":    "other@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// wrong password
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "jane@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "jane@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	decodeInto(t, w, &login)
	require.Equal(t, user.ID, login.ID)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.User
	decodeInto(t, rec, &me)
	require.Equal(t, user.ID, me.ID)

	// no token
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "jane",
		"email":    "not-an-email",
		"password": "x",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	decodeInto(t, w, &body)
	require.Len(t, body.Errors, 2)
}
