package services

import (
	"bookreview_backend/internal/models"
	"bookreview_backend/internal/repositories"
	"bookreview_backend/internal/services/dto"
	"bookreview_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ModerationService is the administrative review surface: any review can be
// listed, re-worded, re-statused or removed regardless of owner.
type ModerationService interface {
	ListReviews(db *gorm.DB, query *dto.ReviewQuery) (*dto.ReviewListResponse, error)
	GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error)
	UpdateReview(db *gorm.DB, reviewID string, req *dto.ModerateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(db *gorm.DB, reviewID string) error
}

type moderationService struct {
	reviewRepo repositories.ReviewRepository
}

func NewModerationService(reviewRepo repositories.ReviewRepository) ModerationService {
	return &moderationService{
		reviewRepo: reviewRepo,
	}
}

func (s *moderationService) ListReviews(db *gorm.DB, query *dto.ReviewQuery) (*dto.ReviewListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	filter := repositories.ReviewFilter{Keyword: query.Keyword}
	reviews, total, err := s.reviewRepo.FindPage(db, filter, page, ReviewPageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildReviewListResponse(reviews, total, page), nil
}

func (s *moderationService) GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	return buildReviewResponse(review), nil
}

func (s *moderationService) UpdateReview(db *gorm.DB, reviewID string, req *dto.ModerateReviewRequest) (*dto.ReviewResponse, error) {
	if !models.IsValidReviewStatus(req.Status) {
		return nil, apperrors.ErrInvalidStatus("review", "Unknown moderation status: "+req.Status)
	}

	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return nil, handleReviewError(err)
	}

	review.ReviewText = req.ReviewText
	review.Status = req.Status
	if err := s.reviewRepo.Update(db, review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildReviewResponse(review), nil
}

func (s *moderationService) DeleteReview(db *gorm.DB, reviewID string) error {
	if err := s.reviewRepo.Delete(db, reviewID); err != nil {
		return handleReviewError(err)
	}
	return nil
}
