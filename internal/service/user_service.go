package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devnest/internal/models"
	"devnest/internal/repository"
)

// UserService implements account lifecycle, profiles and the follow relation.
type UserService struct {
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository

	// now is the clock for ban expiries; tests pin it.
	now func() time.Time
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, notifRepo repository.NotificationRepository) *UserService {
	return &UserService{userRepo: userRepo, notifRepo: notifRepo, now: time.Now}
}

// SyncUserInput carries the identity-provider profile for create-on-first-login.
type SyncUserInput struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	AvatarURL  string
}

// SyncUser creates an account for an external identity exactly once. If an
// account already exists for the identity it is returned unchanged; created
// reports whether this call created it.
func (s *UserService) SyncUser(ctx context.Context, in SyncUserInput) (user *models.User, created bool, err error) {
	if in.ExternalID == "" {
		return nil, false, models.NewUnauthorizedError("Missing external identity")
	}

	existing, err := s.userRepo.GetByExternalID(ctx, in.ExternalID)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	if in.Email == "" {
		return nil, false, models.NewValidationError("Identity provider did not supply an email address")
	}

	username := in.Email
	if at := strings.Index(username, "@"); at > 0 {
		username = username[:at]
	}

	user = &models.User{
		ExternalID: in.ExternalID,
		Email:      in.Email,
		Username:   username,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		AvatarURL:  in.AvatarURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// GetProfile returns the public profile for a username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateProfileInput carries optional profile mutations; empty fields are
// left untouched.
type UpdateProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Bio       string
	AvatarURL string
	BannerURL string
}

const (
	maxUsernameLen = 30
	maxBioLen      = 500
)

// UpdateProfile applies profile edits to the calling user's own account.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in UpdateProfileInput) (*models.User, error) {
	if in.Username != "" {
		if len(in.Username) > maxUsernameLen {
			return nil, models.NewValidationError("Username too long (max 30 characters)")
		}
		user.Username = in.Username
	}
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}
	if in.BannerURL != "" {
		user.BannerURL = in.BannerURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleFollow follows targetID when not yet followed and unfollows otherwise.
// Returns whether the caller follows the target after the call. A follow
// creates a notification for the target; an unfollow does not.
func (s *UserService) ToggleFollow(ctx context.Context, user *models.User, targetID uint) (following bool, err error) {
	if user.ID == targetID {
		return false, models.NewValidationError("You cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return false, err
	}

	isFollowing, err := s.userRepo.IsFollowing(ctx, user.ID, target.ID)
	if err != nil {
		return false, err
	}

	if isFollowing {
		if err := s.userRepo.Unfollow(ctx, user.ID, target.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.userRepo.Follow(ctx, user.ID, target.ID); err != nil {
		return false, err
	}
	if err := s.notifRepo.Create(ctx, &models.Notification{
		Type:   models.NotificationTypeFollow,
		FromID: &user.ID,
		ToID:   target.ID,
	}); err != nil {
		return true, err
	}
	return true, nil
}

// SearchUsers matches the query against username and name parts.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Query parameter is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.userRepo.Search(ctx, query, limit)
}

// BanUser spam-bans an account for the given number of minutes and records a
// notification telling the account why.
func (s *UserService) BanUser(ctx context.Context, targetID uint, minutes int, reason string) (*models.User, error) {
	if minutes < 1 {
		return nil, models.NewValidationError("Ban duration (minutes) required")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	until := s.now().Add(time.Duration(minutes) * time.Minute)
	user.SpamUntil = &until
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("You have been banned for %d minutes.", minutes)
	if reason != "" {
		message += " Reason: " + reason
	}
	if err := s.notifRepo.Create(ctx, &models.Notification{
		Type:    models.NotificationTypeSpam,
		ToID:    user.ID,
		Message: message,
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// isNotFound reports whether err is the repository's not-found error.
func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == "NOT_FOUND"
}
