package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stampflow-backend-go/internal/db"
	"stampflow-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// GetOrCreate retrieves a user by ID, creating the profile on first session
// check. An existing profile has its identity fields refreshed when the token
// claims changed. The token balance is never touched here.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			now := time.Now().UTC()
			newUser := &models.User{
				ID:           userID, // Firebase Auth UID is the document ID
				Email:        email,
				DisplayName:  displayName,
				PhotoURL:     photoURL,
				TokenBalance: 0,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
				return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", userID, createErr)
			}
			return newUser, true, nil
		}
		return nil, false, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}

	if user.Email != email || user.DisplayName != displayName || user.PhotoURL != photoURL {
		user.Email = email
		user.DisplayName = displayName
		user.PhotoURL = photoURL
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			return nil, false, fmt.Errorf("failed to refresh profile for user '%s': %w", userID, updateErr)
		}
	}

	return user, false, nil
}
