package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview_backend/internal/auth"
	"bookreview_backend/internal/config"
	"bookreview_backend/internal/services/dto"
	"bookreview_backend/internal/validator"
	"bookreview_backend/pkg/apperrors"
	"bookreview_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---------------- Stubs ----------------

type stubReviewService struct {
	createFn func(userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	listFn   func(userID string, query *dto.ReviewQuery) (*dto.ReviewListResponse, error)
	getFn    func(userID, reviewID string) (*dto.ReviewResponse, error)
	updateFn func(userID, reviewID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	deleteFn func(userID, reviewID string) error
}

func (s *stubReviewService) CreateReview(db *gorm.DB, userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	return s.createFn(userID, req)
}

func (s *stubReviewService) GetMyReviews(db *gorm.DB, userID string, query *dto.ReviewQuery) (*dto.ReviewListResponse, error) {
	return s.listFn(userID, query)
}

func (s *stubReviewService) GetMyReview(db *gorm.DB, userID, reviewID string) (*dto.ReviewResponse, error) {
	return s.getFn(userID, reviewID)
}

func (s *stubReviewService) UpdateMyReview(db *gorm.DB, userID, reviewID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	return s.updateFn(userID, reviewID, req)
}

func (s *stubReviewService) DeleteMyReview(db *gorm.DB, userID, reviewID string) error {
	return s.deleteFn(userID, reviewID)
}

type stubModerationService struct {
	listFn   func(query *dto.ReviewQuery) (*dto.ReviewListResponse, error)
	getFn    func(reviewID string) (*dto.ReviewResponse, error)
	updateFn func(reviewID string, req *dto.ModerateReviewRequest) (*dto.ReviewResponse, error)
	deleteFn func(reviewID string) error
}

func (s *stubModerationService) ListReviews(db *gorm.DB, query *dto.ReviewQuery) (*dto.ReviewListResponse, error) {
	return s.listFn(query)
}

func (s *stubModerationService) GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	return s.getFn(reviewID)
}

func (s *stubModerationService) UpdateReview(db *gorm.DB, reviewID string, req *dto.ModerateReviewRequest) (*dto.ReviewResponse, error) {
	return s.updateFn(reviewID, req)
}

func (s *stubModerationService) DeleteReview(db *gorm.DB, reviewID string) error {
	return s.deleteFn(reviewID)
}

// ---------------- Helpers ----------------

func setHandlerTestConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 24
	config.AppConfig = cfg

	t.Cleanup(func() { config.AppConfig = prev })
}

// fakeDBMiddleware injects a throwaway *gorm.DB; stub services never touch it.
func fakeDBMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
		c.Next()
	}
}

func newReviewTestRouter(t *testing.T, svc *stubReviewService) *gin.Engine {
	t.Helper()
	setHandlerTestConfig(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(fakeDBMiddleware())

	api := r.Group("/api/v1")
	NewReviewHandler(NewBaseHandler(validator.New()), svc).RegisterRoutes(api)
	return r
}

func newAdminTestRouter(t *testing.T, svc *stubModerationService) *gin.Engine {
	t.Helper()
	setHandlerTestConfig(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(fakeDBMiddleware())

	api := r.Group("/api/v1")
	NewAdminReviewHandler(NewBaseHandler(validator.New()), svc).RegisterRoutes(api)
	return r
}

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(r *gin.Engine, method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeDeleteResponse(t *testing.T, w *httptest.ResponseRecorder) dto.DeleteResponse {
	t.Helper()
	var resp dto.DeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ---------------- Self-service tests ----------------

func TestReviewRoutes_RequireAuth(t *testing.T) {
	router := newReviewTestRouter(t, &stubReviewService{})

	w := doJSON(router, http.MethodGet, "/api/v1/account/reviews", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteMyReview_Success(t *testing.T) {
	var gotUserID, gotReviewID string
	svc := &stubReviewService{
		deleteFn: func(userID, reviewID string) error {
			gotUserID, gotReviewID = userID, reviewID
			return nil
		},
	}
	router := newReviewTestRouter(t, svc)

	w := doJSON(router, http.MethodDelete, "/api/v1/account/reviews/r1", bearerToken(t, "u1", "user"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeDeleteResponse(t, w)
	assert.True(t, resp.Status)
	assert.Equal(t, "Review deleted successfully", resp.Message)
	assert.Equal(t, "u1", gotUserID)
	assert.Equal(t, "r1", gotReviewID)
}

func TestDeleteMyReview_NotFound(t *testing.T) {
	svc := &stubReviewService{
		deleteFn: func(userID, reviewID string) error {
			return apperrors.ErrNotFound(errors.New("no such row"))
		},
	}
	router := newReviewTestRouter(t, svc)

	w := doJSON(router, http.MethodDelete, "/api/v1/account/reviews/missing", bearerToken(t, "u1", "user"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeDeleteResponse(t, w)
	assert.False(t, resp.Status)
	assert.Equal(t, "Review not found", resp.Message)
}

func TestCreateReview_Success(t *testing.T) {
	svc := &stubReviewService{
		createFn: func(userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
			return &dto.ReviewResponse{
				ID:         "r1",
				ReviewText: req.ReviewText,
				Rating:     req.Rating,
				Status:     "pending",
			}, nil
		},
	}
	router := newReviewTestRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/v1/account/reviews", bearerToken(t, "u1", "user"), gin.H{
		"book_id": "book-1",
		"review":  "A gripping read",
		"rating":  5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string             `json:"message"`
		Review  dto.ReviewResponse `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Review created successfully", resp.Message)
	assert.Equal(t, "pending", resp.Review.Status)
}

func TestCreateReview_ValidationFailureSkipsService(t *testing.T) {
	called := false
	svc := &stubReviewService{
		createFn: func(userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
			called = true
			return nil, nil
		},
	}
	router := newReviewTestRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/v1/account/reviews", bearerToken(t, "u1", "user"), gin.H{
		"book_id": "book-1",
		"review":  "rating out of range",
		"rating":  9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestGetMyReviews_PassesQuery(t *testing.T) {
	var gotQuery *dto.ReviewQuery
	svc := &stubReviewService{
		listFn: func(userID string, query *dto.ReviewQuery) (*dto.ReviewListResponse, error) {
			gotQuery = query
			return &dto.ReviewListResponse{Reviews: []*dto.ReviewResponse{}, Page: query.Page, PageSize: 5}, nil
		},
	}
	router := newReviewTestRouter(t, svc)

	w := doJSON(router, http.MethodGet, "/api/v1/account/reviews?keyword=amazing&page=2", bearerToken(t, "u1", "user"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, gotQuery)
	assert.Equal(t, "amazing", gotQuery.Keyword)
	assert.Equal(t, 2, gotQuery.Page)
}

// ---------------- Moderation tests ----------------

func TestAdminRoutes_ForbiddenForRegularUser(t *testing.T) {
	router := newAdminTestRouter(t, &stubModerationService{})

	w := doJSON(router, http.MethodDelete, "/api/v1/admin/reviews/r1", bearerToken(t, "u1", "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminDeleteReview_Success(t *testing.T) {
	svc := &stubModerationService{
		deleteFn: func(reviewID string) error { return nil },
	}
	router := newAdminTestRouter(t, svc)

	w := doJSON(router, http.MethodDelete, "/api/v1/admin/reviews/r1", bearerToken(t, "admin-1", "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeDeleteResponse(t, w)
	assert.True(t, resp.Status)
}

func TestAdminDeleteReview_NotFound(t *testing.T) {
	svc := &stubModerationService{
		deleteFn: func(reviewID string) error {
			return apperrors.ErrNotFound(errors.New("no such row"))
		},
	}
	router := newAdminTestRouter(t, svc)

	w := doJSON(router, http.MethodDelete, "/api/v1/admin/reviews/missing", bearerToken(t, "admin-1", "admin"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeDeleteResponse(t, w)
	assert.False(t, resp.Status)
	assert.Equal(t, "Review not found", resp.Message)
}

func TestAdminUpdateReview_InvalidStatusRejected(t *testing.T) {
	var gotStatus string
	svc := &stubModerationService{
		updateFn: func(reviewID string, req *dto.ModerateReviewRequest) (*dto.ReviewResponse, error) {
			gotStatus = req.Status
			return nil, apperrors.ErrInvalidStatus("review", "Unknown moderation status: "+req.Status)
		},
	}
	router := newAdminTestRouter(t, svc)

	w := doJSON(router, http.MethodPut, "/api/v1/admin/reviews/r1", bearerToken(t, "admin-1", "admin"), gin.H{
		"review": "text",
		"status": "archived",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "archived", gotStatus)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, apperrors.CodeInvalidStatus, resp.Error.Code)
}
