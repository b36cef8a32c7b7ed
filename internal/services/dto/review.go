package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateReviewRequest struct {
	BookID     string `json:"book_id" validate:"required"`
	ReviewText string `json:"review" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
}

type UpdateReviewRequest struct {
	ReviewText string `json:"review" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
}

// ModerateReviewRequest is the admin variant: status instead of rating.
// The status value set is enforced by ModerationService, not here.
type ModerateReviewRequest struct {
	ReviewText string `json:"review" validate:"required"`
	Status     string `json:"status" validate:"required"`
}

// ReviewQuery holds listing parameters bound from the query string.
type ReviewQuery struct {
	Keyword string `form:"keyword" validate:"omitempty,max=200"`
	Page    int    `form:"page" validate:"omitempty,min=1"`
}

// ======================
// Response DTOs
// ======================

type BookInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type ReviewAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReviewResponse struct {
	ID         string        `json:"id"`
	ReviewText string        `json:"review"`
	Rating     int           `json:"rating"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	Book       *BookInfo     `json:"book,omitempty"`
	User       *ReviewAuthor `json:"user,omitempty"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// DeleteResponse is the contract for asynchronously invoked deletes.
type DeleteResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
}
