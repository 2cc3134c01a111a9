package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/repositories"
	"github.com/officegames/rating-system/storage"
)

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	// UploadAvatar stores the image and returns its public URL.
	UploadAvatar(ctx context.Context, userID int, contentType string, data io.Reader) (string, error)
	CreateGuest(ctx context.Context, name string) (*models.Guest, error)
	// ClaimGuest binds an unclaimed guest to a registered user. Future rosters
	// naming the guest resolve to that user.
	ClaimGuest(ctx context.Context, guestID, userID int) error
}

type userService struct {
	userRepo  repositories.UserRepository
	guestRepo repositories.GuestRepository
	uploader  storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, guestRepo repositories.GuestRepository, uploader storage.FileUploader) UserService {
	return &userService{
		userRepo:  userRepo,
		guestRepo: guestRepo,
		uploader:  uploader,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, contentType string, data io.Reader) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("%w: avatar storage is not configured", ErrValidationFailed)
	}
	if _, err := s.GetByID(ctx, userID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%d/%d", userID, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar for user %d: %w", userID, err)
	}

	if err := s.userRepo.UpdateImage(ctx, userID, result.Location); err != nil {
		return "", fmt.Errorf("failed to store avatar url for user %d: %w", userID, err)
	}
	return result.Location, nil
}

func (s *userService) CreateGuest(ctx context.Context, name string) (*models.Guest, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: guest name is required", ErrValidationFailed)
	}
	guest := &models.Guest{Name: name}
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return guest, nil
}

func (s *userService) ClaimGuest(ctx context.Context, guestID, userID int) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.guestRepo.Claim(ctx, guestID, userID); err != nil {
		if errors.Is(err, repositories.ErrGuestNotFound) {
			return fmt.Errorf("%w: guest %d does not exist or is already claimed", ErrNotFound, guestID)
		}
		return fmt.Errorf("failed to claim guest %d: %w", guestID, err)
	}
	return nil
}
