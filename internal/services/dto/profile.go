package dto

import (
	"mime/multipart"
	"time"
)

// UpdateProfileRequest is bound from a multipart form; Image is optional.
type UpdateProfileRequest struct {
	Name  string                `form:"name" validate:"required,min=3"`
	Email string                `form:"email" validate:"required,email"`
	Image *multipart.FileHeader `form:"image" validate:"-"`
}

type ProfileResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Image        string    `json:"image,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
