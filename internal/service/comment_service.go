package service

import (
	"context"
	"strings"

	"devnest/internal/models"
	"devnest/internal/repository"
)

// CommentService implements comment creation and moderation.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifRepo   repository.NotificationRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, notifRepo repository.NotificationRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, notifRepo: notifRepo}
}

// CreateComment stores a comment on an existing post. Commenting on someone
// else's post notifies its author.
func (s *CommentService) CreateComment(ctx context.Context, author *models.User, postID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	post, err := s.postRepo.GetByID(ctx, postID, author.ID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  author.ID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.UserID != author.ID {
		if err := s.notifRepo.Create(ctx, &models.Notification{
			Type:   models.NotificationTypeComment,
			FromID: &author.ID,
			ToID:   post.UserID,
			PostID: &post.ID,
		}); err != nil {
			return comment, err
		}
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListByPost returns a post's comments oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. The comment's author and admins may delete.
func (s *CommentService) DeleteComment(ctx context.Context, caller *models.User, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != caller.ID && !caller.IsAdmin {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
