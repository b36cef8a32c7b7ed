package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"bookreview_backend/internal/models"
	"bookreview_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewListBody struct {
	Reviews []struct {
		ID         string `json:"id"`
		ReviewText string `json:"review"`
		Status     string `json:"status"`
	} `json:"reviews"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func TestCreateReview_StartsPending(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginReader(t, ts, tx)
	book := helpers.CreateBook(t, tx, "The Dispossessed", "Ursula K. Le Guin")

	res, body := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/account/reviews", token, map[string]interface{}{
		"book_id": book.ID,
		"review":  "An ambiguous utopia, brilliantly told",
		"rating":  5,
	})
	require.Equal(t, http.StatusCreated, res.Code, "create failed: %s", body)
	assert.Contains(t, body, `"status":"pending"`)
	assert.Contains(t, body, "Review created successfully")
}

func TestCreateReview_UnknownBook(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginReader(t, ts, tx)

	res, _ := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/account/reviews", token, map[string]interface{}{
		"book_id": "00000000-0000-0000-0000-000000000000",
		"review":  "review of nothing",
		"rating":  3,
	})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestListMyReviews_PaginationAndOrdering(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, user := helpers.CreateAndLoginReader(t, ts, tx)
	book := helpers.CreateBook(t, tx, "Paged Book", "Some Author")

	// Explicit timestamps: now() is frozen inside a transaction, so default
	// created_at values would all collide.
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		review := &models.Review{
			BaseModel:  models.BaseModel{CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			BookID:     book.ID,
			UserID:     user.ID,
			ReviewText: fmt.Sprintf("numbered review %02d", i),
			Rating:     4,
			Status:     models.ReviewStatusPending,
		}
		require.NoError(t, tx.Create(review).Error)
	}

	res, body := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/account/reviews?page=2", token, nil)
	require.Equal(t, http.StatusOK, res.Code, "list failed: %s", body)

	var page2 reviewListBody
	require.NoError(t, json.Unmarshal([]byte(body), &page2))
	assert.Equal(t, int64(12), page2.Total)
	assert.Equal(t, 5, page2.PageSize)
	assert.Equal(t, 3, page2.TotalPages)
	require.Len(t, page2.Reviews, 5)
	// Newest first: page 2 of 12 holds reviews 06..02.
	assert.Equal(t, "numbered review 06", page2.Reviews[0].ReviewText)
	assert.Equal(t, "numbered review 02", page2.Reviews[4].ReviewText)
}

func TestListMyReviews_KeywordFilterIsCaseInsensitive(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, user := helpers.CreateAndLoginReader(t, ts, tx)
	book := helpers.CreateBook(t, tx, "Filtered Book", "Some Author")

	helpers.CreateReview(t, tx, book.ID, user.ID, "An AMAZING adventure", 5, models.ReviewStatusPending)
	helpers.CreateReview(t, tx, book.ID, user.ID, "rather forgettable", 2, models.ReviewStatusPending)
	helpers.CreateReview(t, tx, book.ID, user.ID, "simply amazing prose", 4, models.ReviewStatusPending)

	res, body := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/account/reviews?keyword=amazing", token, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var list reviewListBody
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Equal(t, int64(2), list.Total)
}

func TestListMyReviews_DoesNotLeakOtherUsers(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, user := helpers.CreateAndLoginReader(t, ts, tx)
	_, other := helpers.CreateAndLoginReader(t, ts, tx)
	book := helpers.CreateBook(t, tx, "Shared Book", "Some Author")

	helpers.CreateReview(t, tx, book.ID, user.ID, "mine", 4, models.ReviewStatusPending)
	helpers.CreateReview(t, tx, book.ID, other.ID, "not mine", 4, models.ReviewStatusPending)

	res, body := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/account/reviews", token, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var list reviewListBody
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, "mine", list.Reviews[0].ReviewText)
}

func TestUpdateMyReview_OtherUsersReviewIs404(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, owner := helpers.CreateAndLoginReader(t, ts, tx)
	intruderToken, _ := helpers.CreateAndLoginReader(t, ts, tx)
	book := helpers.CreateBook(t, tx, "Private Book", "Some Author")
	review := helpers.CreateReview(t, tx, book.ID, owner.ID, "owner opinion", 4, models.ReviewStatusPending)

	res, _ := ts.SendRequest(t, tx, http.MethodPut, "/api/v1/account/reviews/"+review.ID, intruderToken, map[string]interface{}{
		"review": "hijacked",
		"rating": 1,
	})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestDeleteMyReview_Contract(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, user := helpers.CreateAndLoginReader(t, ts, tx)
	book := helpers.CreateBook(t, tx, "Doomed Book", "Some Author")
	review := helpers.CreateReview(t, tx, book.ID, user.ID, "to be removed", 3, models.ReviewStatusPending)

	res, body := ts.SendRequest(t, tx, http.MethodDelete, "/api/v1/account/reviews/"+review.ID, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, body, `"status":true`)

	// Deleting the same review again reports the failure contract.
	res2, body2 := ts.SendRequest(t, tx, http.MethodDelete, "/api/v1/account/reviews/"+review.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, res2.Code)
	assert.Contains(t, body2, `"status":false`)
	assert.Contains(t, body2, "Review not found")
}

func TestAdminModeration_ApproveAndDelete(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	_, reader := helpers.CreateAndLoginReader(t, ts, tx)
	book := helpers.CreateBook(t, tx, "Moderated Book", "Some Author")
	review := helpers.CreateReview(t, tx, book.ID, reader.ID, "awaiting moderation", 4, models.ReviewStatusPending)

	// Admin sees other users' reviews.
	getRes, getBody := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/admin/reviews/"+review.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, getRes.Code, "admin get failed: %s", getBody)

	updRes, updBody := ts.SendRequest(t, tx, http.MethodPut, "/api/v1/admin/reviews/"+review.ID, adminToken, map[string]interface{}{
		"review": "awaiting moderation",
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, updRes.Code, "moderation update failed: %s", updBody)
	assert.Contains(t, updBody, `"status":"approved"`)

	delRes, delBody := ts.SendRequest(t, tx, http.MethodDelete, "/api/v1/admin/reviews/"+review.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, delRes.Code)
	assert.Contains(t, delBody, `"status":true`)
}

func TestAdminRoutes_ForbiddenForReaders(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	readerToken, _ := helpers.CreateAndLoginReader(t, ts, tx)

	res, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/admin/reviews", readerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
}
