package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"bookreview_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user in the transaction, hashing the password when a
// raw one was supplied.
func CreateUser(t *testing.T, tx *gorm.DB, user *models.User) {
	t.Helper()

	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		require.NoError(t, err, "failed to hash password")
		user.PasswordHash = string(hash)
	}
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}

	require.NoError(t, tx.Create(user).Error, "failed to create test user %s", user.Email)
}

// CreateAndLoginUser creates a user and logs in through the API, returning
// the access token and the user.
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, name, email, password string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: password,
		Role:         role,
	}
	CreateUser(t, tx, user)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, bodyStr := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.Code, "login should succeed, got: %s", bodyStr)

	var loginResponse struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.AccessToken)

	return loginResponse.AccessToken, user
}

// CreateAndLoginReader creates a regular user with a unique email.
func CreateAndLoginReader(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	t.Helper()
	email := fmt.Sprintf("reader_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Reader", email, "password123", models.UserRoleUser)
}

// CreateAndLoginAdmin creates an admin user with a unique email.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	t.Helper()
	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Admin", email, "password123", models.UserRoleAdmin)
}

// CreateBook inserts a book in the transaction.
func CreateBook(t *testing.T, tx *gorm.DB, title, author string) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:  title,
		Author: author,
		Slug:   fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(title, " ", "-")), time.Now().UnixNano()),
	}
	require.NoError(t, tx.Create(book).Error, "failed to create test book %s", title)
	return book
}

// CreateReview inserts a review in the transaction.
func CreateReview(t *testing.T, tx *gorm.DB, bookID, userID, text string, rating int, status string) *models.Review {
	t.Helper()

	review := &models.Review{
		BookID:     bookID,
		UserID:     userID,
		ReviewText: text,
		Rating:     rating,
		Status:     status,
	}
	require.NoError(t, tx.Create(review).Error, "failed to create test review")
	return review
}
