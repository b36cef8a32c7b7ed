package handlers

import (
	"bookreview_backend/internal/services"
	"bookreview_backend/internal/storage"
	"bookreview_backend/internal/validator"
)

// Registry bundles all HTTP handlers for route registration.
type Registry struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Review      *ReviewHandler
	AdminReview *AdminReviewHandler
	File        *FileHandler
}

func NewRegistry(container *services.ServiceContainer, store storage.Storage) *Registry {
	base := NewBaseHandler(validator.New())

	return &Registry{
		Auth:        NewAuthHandler(base, container.Auth),
		Profile:     NewProfileHandler(base, container.Profile),
		Review:      NewReviewHandler(base, container.Review),
		AdminReview: NewAdminReviewHandler(base, container.Moderation),
		File:        NewFileHandler(base, store),
	}
}
