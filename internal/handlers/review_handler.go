package handlers

import (
	"net/http"

	"bookreview_backend/internal/middleware"
	"bookreview_backend/internal/services"
	"bookreview_backend/internal/services/dto"
	"bookreview_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ReviewHandler is the self-service surface: a user manages own reviews.
type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/account/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("", h.GetMyReviews)
		reviews.GET("/:reviewId", h.GetMyReview)
		reviews.PUT("/:reviewId", h.UpdateMyReview)
		reviews.DELETE("/:reviewId", h.DeleteMyReview)
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ReviewQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	reviews, err := h.reviewService.GetMyReviews(h.GetDB(c), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetMyReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.GetMyReview(h.GetDB(c), userID, c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) UpdateMyReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateMyReview(h.GetDB(c), userID, c.Param("reviewId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteMyReview responds with the {status, message} contract expected by
// asynchronous callers, including for the not-found case.
func (h *ReviewHandler) DeleteMyReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteMyReview(h.GetDB(c), userID, c.Param("reviewId")); err != nil {
		respondDeleteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{
		Status:  true,
		Message: "Review deleted successfully",
	})
}

// respondDeleteError keeps the JSON delete contract: failures carry
// status:false with the error's HTTP code.
func respondDeleteError(c *gin.Context, err error) {
	httpCode := http.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := apperrors.AsAppError(err); ok {
		httpCode = appErr.HTTPCode
		message = appErr.Message
		if appErr.Code == apperrors.CodeNotFound {
			message = "Review not found"
		}
	}

	c.JSON(httpCode, dto.DeleteResponse{
		Status:  false,
		Message: message,
	})
}
