package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devnest/internal/models"
	"devnest/internal/repository"
)

// PostService implements post lifecycle, likes, shares and reports.
type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository

	now func() time.Time
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, notifRepo repository.NotificationRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		now:       time.Now,
	}
}

// CreatePostInput carries a new post's fields.
type CreatePostInput struct {
	Content    string
	Type       string
	Categories []string
	Price      *float64
	ImageURL   string
}

// CreatePost validates and stores a new post by author, returning it fully
// expanded. Spam-banned accounts cannot post until their ban expires.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, in CreatePostInput) (*models.Post, error) {
	if author.Banned(s.now()) {
		return nil, models.NewForbiddenError(fmt.Sprintf("You are banned until %s", author.SpamUntil.Format(time.RFC3339)))
	}

	if strings.TrimSpace(in.Content) == "" && in.ImageURL == "" {
		return nil, models.NewValidationError("Post must contain either text or image")
	}
	if len(in.Content) > models.MaxPostContentLen {
		return nil, models.NewValidationError("Post content too long (max 1000 characters)")
	}
	if !models.ValidPostType(in.Type) {
		return nil, models.NewValidationError("Invalid post type")
	}
	categories := trimCategories(in.Categories)
	if len(categories) == 0 {
		return nil, models.NewValidationError("At least one category is required")
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, models.NewValidationError("Price cannot be negative")
	}

	post := &models.Post{
		UserID:     author.ID,
		Content:    in.Content,
		Type:       in.Type,
		Categories: categoryLabels(categories),
		Price:      in.Price,
		ImageURL:   in.ImageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, author.ID)
}

// GetPost returns one post, fully expanded for the viewer.
func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

// GetUserPosts returns every post authored by the named account, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, username string, viewerID uint) ([]*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.postRepo.ListByUser(ctx, user.ID, viewerID)
}

// UpdateContent replaces a post's text. Only the author may edit.
func (s *PostService) UpdateContent(ctx context.Context, caller *models.User, postID uint, content string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, caller.ID)
	if err != nil {
		return nil, err
	}
	if post.UserID != caller.ID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if strings.TrimSpace(content) == "" && post.ImageURL == "" {
		return nil, models.NewValidationError("Post must contain either text or image")
	}
	if len(content) > models.MaxPostContentLen {
		return nil, models.NewValidationError("Post content too long (max 1000 characters)")
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, caller.ID)
}

// DeletePost removes a post and its dependents. The author and admins may
// delete; anyone else is rejected.
func (s *PostService) DeletePost(ctx context.Context, caller *models.User, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, caller.ID)
	if err != nil {
		return err
	}
	if post.UserID != caller.ID && !caller.IsAdmin {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike likes the post when the caller has not liked it yet and unlikes
// it otherwise. Returns whether the post is liked after the call. Liking
// someone else's post notifies its author.
func (s *PostService) ToggleLike(ctx context.Context, caller *models.User, postID uint) (liked bool, err error) {
	post, err := s.postRepo.GetByID(ctx, postID, caller.ID)
	if err != nil {
		return false, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, caller.ID, postID)
	if err != nil {
		return false, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, caller.ID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.postRepo.Like(ctx, caller.ID, postID); err != nil {
		return false, err
	}
	if post.UserID != caller.ID {
		if err := s.notifRepo.Create(ctx, &models.Notification{
			Type:   models.NotificationTypeLike,
			FromID: &caller.ID,
			ToID:   post.UserID,
			PostID: &post.ID,
		}); err != nil {
			return true, err
		}
	}
	return true, nil
}

// SharePost republishes someone else's post under the caller's account. The
// copy carries the original's content, type, categories, price and image, and
// keeps a back-reference to the original. Sharing your own post is rejected.
func (s *PostService) SharePost(ctx context.Context, caller *models.User, postID uint) (*models.Post, error) {
	original, err := s.postRepo.GetByID(ctx, postID, caller.ID)
	if err != nil {
		return nil, err
	}
	if original.UserID == caller.ID {
		return nil, models.NewValidationError("You cannot share your own post")
	}

	share := &models.Post{
		UserID:       caller.ID,
		Content:      original.Content,
		Type:         original.Type,
		Categories:   categoryLabels(original.CategoryNames()),
		Price:        original.Price,
		ImageURL:     original.ImageURL,
		SharedFromID: &original.ID,
	}
	if err := s.postRepo.Create(ctx, share); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, share.ID, caller.ID)
}

// ReportPost files the caller's report against a post. One report per account
// per post; a repeat report is rejected.
func (s *PostService) ReportPost(ctx context.Context, caller *models.User, postID uint, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return models.NewValidationError("Report reason is required")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, caller.ID); err != nil {
		return err
	}

	reported, err := s.postRepo.HasReport(ctx, postID, caller.ID)
	if err != nil {
		return err
	}
	if reported {
		return models.NewValidationError("You already reported this post")
	}

	return s.postRepo.AddReport(ctx, &models.PostReport{
		PostID: postID,
		UserID: caller.ID,
		Reason: reason,
	})
}

// SearchByCategories matches posts carrying any of the comma-separated
// category labels.
func (s *PostService) SearchByCategories(ctx context.Context, raw string, viewerID uint) ([]*models.Post, error) {
	names := trimCategories(strings.Split(raw, ","))
	if len(names) == 0 {
		return nil, models.NewValidationError("At least one category is required")
	}
	return s.postRepo.SearchByCategories(ctx, names, viewerID)
}

// SearchByType returns every post of one content type.
func (s *PostService) SearchByType(ctx context.Context, postType string, viewerID uint) ([]*models.Post, error) {
	if !models.ValidPostType(postType) {
		return nil, models.NewValidationError("Invalid post type")
	}
	return s.postRepo.SearchByType(ctx, postType, viewerID)
}

// trimCategories trims whitespace and drops blank labels.
func trimCategories(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, c)
		}
	}
	return names
}

func categoryLabels(names []string) []models.PostCategory {
	categories := make([]models.PostCategory, 0, len(names))
	for _, n := range names {
		categories = append(categories, models.PostCategory{Name: n})
	}
	return categories
}
