package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"bookreview_backend/internal/imageprocessor"
	"bookreview_backend/internal/logger"
	"bookreview_backend/internal/models"
	"bookreview_backend/internal/repositories"
	"bookreview_backend/internal/services/dto"
	"bookreview_backend/internal/storage"
	"bookreview_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

// UploadRules constrains profile image uploads.
type UploadRules struct {
	MaxSize      int64
	AllowedTypes []string
}

type profileService struct {
	userRepo  repositories.UserRepository
	storage   storage.Storage
	processor *imageprocessor.Processor
	rules     UploadRules
}

func NewProfileService(
	userRepo repositories.UserRepository,
	store storage.Storage,
	processor *imageprocessor.Processor,
	rules UploadRules,
) ProfileService {
	return &profileService{
		userRepo:  userRepo,
		storage:   store,
		processor: processor,
		rules:     rules,
	}
}

func (s *profileService) GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return s.buildProfileResponse(context.Background(), user), nil
}

// UpdateProfile updates name and email, and when an image is attached runs
// the replacement pipeline. Both artifacts (original and 150x150 thumbnail)
// are published to storage before the user row is touched, and the previous
// artifacts are deleted last. A failure at any step therefore never leaves
// the user record pointing at a missing file.
func (s *profileService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	taken, err := s.userRepo.EmailTaken(db, req.Email, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ValidationError(map[string]string{
			"email": "This email is already registered",
		})
	}

	oldImage := user.Image
	if req.Image != nil {
		newName, err := s.replaceImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		user.Image = newName
	}

	user.Name = req.Name
	user.Email = req.Email
	if err := s.userRepo.Update(db, user); err != nil {
		// The just-published files become orphans; the old artifacts and the
		// user row are untouched.
		return nil, apperrors.InternalError(err)
	}

	if req.Image != nil && oldImage != "" {
		s.deleteArtifacts(ctx, oldImage)
	}

	return s.buildProfileResponse(ctx, user), nil
}

// replaceImage validates the upload, generates a collision-resistant name
// and publishes the original plus its thumbnail. Nothing is written unless
// the payload decodes as an image.
func (s *profileService) replaceImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := s.validateImage(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	// Thumbnail first: a corrupt payload fails here, before any write
	thumb, contentType, err := s.processor.Cover(src, imageprocessor.SizeThumbnail)
	if err != nil {
		return "", apperrors.ErrInvalidImage
	}

	ext := strings.ToLower(filepath.Ext(storage.SafeFilename(file.Filename)))
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", apperrors.InternalError(err)
	}
	if err := s.storage.Save(ctx, originalPath(name), src, contentType); err != nil {
		return "", apperrors.InternalError(err)
	}

	if err := s.storage.Save(ctx, thumbPath(name), thumb, contentType); err != nil {
		// Do not leave a lone original behind
		if delErr := s.storage.Delete(ctx, originalPath(name)); delErr != nil {
			logger.CtxWithError(ctx, "failed to clean up original after thumbnail failure", delErr, "file", name)
		}
		return "", apperrors.InternalError(err)
	}

	return name, nil
}

func (s *profileService) validateImage(file *multipart.FileHeader) error {
	if file.Size > s.rules.MaxSize {
		return apperrors.ErrFileTooLarge
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromFilename(file.Filename)
	}
	for _, allowed := range s.rules.AllowedTypes {
		if mimeType == allowed {
			return nil
		}
	}
	return apperrors.ErrInvalidFileType
}

// deleteArtifacts removes a stale original and its thumbnail. Missing files
// are not an error; anything else is logged and ignored, since the user row
// already points at the new artifacts.
func (s *profileService) deleteArtifacts(ctx context.Context, name string) {
	if err := s.storage.Delete(ctx, originalPath(name)); err != nil {
		logger.CtxWithError(ctx, "failed to delete old profile image", err, "file", name)
	}
	if err := s.storage.Delete(ctx, thumbPath(name)); err != nil {
		logger.CtxWithError(ctx, "failed to delete old profile thumbnail", err, "file", name)
	}
}

func (s *profileService) buildProfileResponse(ctx context.Context, user *models.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
	}

	if user.Image != "" {
		if url, err := s.storage.GetURL(ctx, originalPath(user.Image)); err == nil {
			resp.ImageURL = url
		}
		if url, err := s.storage.GetURL(ctx, thumbPath(user.Image)); err == nil {
			resp.ThumbnailURL = url
		}
	}

	return resp
}

func originalPath(name string) string {
	return storage.ProfileArea + "/" + name
}

func thumbPath(name string) string {
	return storage.ProfileThumbArea + "/" + name
}

func mimeTypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}
