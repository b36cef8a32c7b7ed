package services

import (
	"errors"

	"bookreview_backend/internal/models"
	"bookreview_backend/internal/repositories"
	"bookreview_backend/internal/services/dto"
	"bookreview_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ReviewPageSize is the fixed page size for review listings.
const ReviewPageSize = 5

// ReviewService covers the self-service surface: users manage their own
// reviews only. The owner check is part of every lookup.
type ReviewService interface {
	CreateReview(db *gorm.DB, userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetMyReviews(db *gorm.DB, userID string, query *dto.ReviewQuery) (*dto.ReviewListResponse, error)
	GetMyReview(db *gorm.DB, userID, reviewID string) (*dto.ReviewResponse, error)
	UpdateMyReview(db *gorm.DB, userID, reviewID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteMyReview(db *gorm.DB, userID, reviewID string) error
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	bookRepo   repositories.BookRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	bookRepo repositories.BookRepository,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

func (s *reviewService) CreateReview(db *gorm.DB, userID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	book, err := s.bookRepo.FindByID(db, req.BookID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	review := &models.Review{
		BookID:     book.ID,
		UserID:     userID,
		ReviewText: req.ReviewText,
		Rating:     req.Rating,
		Status:     models.ReviewStatusPending,
	}

	if err := s.reviewRepo.Create(db, review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	review.Book = *book
	return buildReviewResponse(review), nil
}

func (s *reviewService) GetMyReviews(db *gorm.DB, userID string, query *dto.ReviewQuery) (*dto.ReviewListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	filter := repositories.ReviewFilter{
		UserID:  userID,
		Keyword: query.Keyword,
	}
	reviews, total, err := s.reviewRepo.FindPage(db, filter, page, ReviewPageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildReviewListResponse(reviews, total, page), nil
}

func (s *reviewService) GetMyReview(db *gorm.DB, userID, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByIDAndUser(db, reviewID, userID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	return buildReviewResponse(review), nil
}

func (s *reviewService) UpdateMyReview(db *gorm.DB, userID, reviewID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	// Lookup is scoped to the owner: another user's review id behaves
	// exactly like a missing review
	review, err := s.reviewRepo.FindByIDAndUser(db, reviewID, userID)
	if err != nil {
		return nil, handleReviewError(err)
	}

	review.ReviewText = req.ReviewText
	review.Rating = req.Rating
	if err := s.reviewRepo.Update(db, review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildReviewResponse(review), nil
}

func (s *reviewService) DeleteMyReview(db *gorm.DB, userID, reviewID string) error {
	review, err := s.reviewRepo.FindByIDAndUser(db, reviewID, userID)
	if err != nil {
		return handleReviewError(err)
	}
	if err := s.reviewRepo.Delete(db, review.ID); err != nil {
		return handleReviewError(err)
	}
	return nil
}

// ---------------- Shared helpers ----------------

func handleReviewError(err error) error {
	if errors.Is(err, repositories.ErrReviewNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}

func buildReviewResponse(review *models.Review) *dto.ReviewResponse {
	resp := &dto.ReviewResponse{
		ID:         review.ID,
		ReviewText: review.ReviewText,
		Rating:     review.Rating,
		Status:     review.Status,
		CreatedAt:  review.CreatedAt,
	}
	if review.Book.ID != "" {
		resp.Book = &dto.BookInfo{
			ID:     review.Book.ID,
			Title:  review.Book.Title,
			Author: review.Book.Author,
		}
	}
	if review.User.ID != "" {
		resp.User = &dto.ReviewAuthor{
			ID:   review.User.ID,
			Name: review.User.Name,
		}
	}
	return resp
}

func buildReviewListResponse(reviews []models.Review, total int64, page int) *dto.ReviewListResponse {
	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, buildReviewResponse(&reviews[i]))
	}

	return &dto.ReviewListResponse{
		Reviews:    responses,
		Total:      total,
		Page:       page,
		PageSize:   ReviewPageSize,
		TotalPages: calculateTotalPages(total, ReviewPageSize),
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
