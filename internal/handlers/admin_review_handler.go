package handlers

import (
	"net/http"

	"bookreview_backend/internal/middleware"
	"bookreview_backend/internal/models"
	"bookreview_backend/internal/services"
	"bookreview_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminReviewHandler is the moderation surface: admins manage all reviews.
type AdminReviewHandler struct {
	*BaseHandler
	moderationService services.ModerationService
}

func NewAdminReviewHandler(base *BaseHandler, moderationService services.ModerationService) *AdminReviewHandler {
	return &AdminReviewHandler{
		BaseHandler:       base,
		moderationService: moderationService,
	}
}

func (h *AdminReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin/reviews")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListReviews)
		admin.GET("/:reviewId", h.GetReview)
		admin.PUT("/:reviewId", h.UpdateReview)
		admin.DELETE("/:reviewId", h.DeleteReview)
	}
}

func (h *AdminReviewHandler) ListReviews(c *gin.Context) {
	var query dto.ReviewQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	reviews, err := h.moderationService.ListReviews(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *AdminReviewHandler) GetReview(c *gin.Context) {
	review, err := h.moderationService.GetReview(h.GetDB(c), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *AdminReviewHandler) UpdateReview(c *gin.Context) {
	var req dto.ModerateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.moderationService.UpdateReview(h.GetDB(c), c.Param("reviewId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReview reports status:true on success.
func (h *AdminReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.moderationService.DeleteReview(h.GetDB(c), c.Param("reviewId")); err != nil {
		respondDeleteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{
		Status:  true,
		Message: "Review deleted successfully",
	})
}
