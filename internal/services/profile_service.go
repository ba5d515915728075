package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"github.com/mentorlink/mentorlink-api/pkg/objstore"
)

// ProfileService handles profile updates and picture uploads
type ProfileService struct {
	users   repository.UserStore
	storage *objstore.Client
	mentors *MentorService
}

// NewProfileService creates a new ProfileService. storage may be nil when no
// object storage is configured; picture uploads then fail cleanly.
func NewProfileService(users repository.UserStore, storage *objstore.Client, mentors *MentorService) *ProfileService {
	return &ProfileService{
		users:   users,
		storage: storage,
		mentors: mentors,
	}
}

// UpdateProfile applies a partial profile update. Fields left out of the
// request keep their stored values. Skills are a mentor-only field.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.User, error) {
	start := time.Now()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		metrics.ProfileUpdates.WithLabelValues("error").Inc()
		return nil, err
	}

	if req.Skills != nil && user.Role != models.RoleMentor {
		metrics.ProfileUpdates.WithLabelValues("invalid").Inc()
		return nil, apperrors.InvalidInputError("skills", "only mentors list skills")
	}

	updated, err := s.users.UpdateUserProfile(ctx, userID, models.ProfileUpdate{
		Name:   req.Name,
		Bio:    req.Bio,
		Skills: req.Skills,
	})
	if err != nil {
		logger.Error("Failed to update profile",
			zap.Int("user_id", userID),
			zap.Error(err))
		metrics.ProfileUpdates.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if updated.Role == models.RoleMentor {
		s.mentors.InvalidateCache()
	}

	metrics.ProfileUpdates.WithLabelValues("success").Inc()
	logger.Info("Profile updated",
		zap.Int("user_id", userID),
		zap.Duration("duration", time.Since(start)))

	return updated, nil
}

// UploadProfilePicture validates, stores and links a new profile picture,
// returning its public URL.
func (s *ProfileService) UploadProfilePicture(ctx context.Context, userID int, req *models.UploadProfilePictureRequest) (string, error) {
	if s.storage == nil {
		metrics.ProfilePictureUploads.WithLabelValues("error").Inc()
		return "", apperrors.InternalError("object storage is not configured")
	}

	if err := s.storage.ValidateImageType(req.ContentType); err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid").Inc()
		return "", apperrors.InvalidInputError("contentType", err.Error())
	}
	if err := s.storage.ValidateImageSize(req.Image); err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid").Inc()
		return "", apperrors.InvalidInputError("image", err.Error())
	}

	imageBytes, err := objstore.DecodeImage(req.Image)
	if err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid").Inc()
		return "", apperrors.InvalidInputError("image", "invalid base64 image data")
	}
	if err := objstore.ValidateImageDimensions(imageBytes); err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid").Inc()
		return "", apperrors.InvalidInputError("image", err.Error())
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("error").Inc()
		return "", err
	}

	key := objstore.GenerateFileName(userID, req.FileName)
	url, err := s.storage.UploadImage(ctx, req.Image, key, req.ContentType)
	if err != nil {
		logger.Error("Failed to upload profile picture",
			zap.Int("user_id", userID),
			zap.Error(err))
		metrics.ProfilePictureUploads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to upload profile picture: %w", err)
	}

	if _, err := s.users.UpdateUserProfile(ctx, userID, models.ProfileUpdate{ImageURL: &url}); err != nil {
		logger.Error("Failed to link uploaded picture",
			zap.Int("user_id", userID),
			zap.String("url", url),
			zap.Error(err))
		metrics.ProfilePictureUploads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to link uploaded picture: %w", err)
	}

	if user.Role == models.RoleMentor {
		s.mentors.InvalidateCache()
	}

	metrics.ProfilePictureUploads.WithLabelValues("success").Inc()
	logger.Info("Profile picture uploaded",
		zap.Int("user_id", userID),
		zap.String("key", key))

	return url, nil
}
