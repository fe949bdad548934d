package service

import (
	"context"
	"errors"
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/storage"
	"quill/internal/validation"

	"gorm.io/gorm"
)

// PageSize is the fixed number of posts per page.
const PageSize = 2

// PostService handles post CRUD with ownership enforcement.
type PostService struct {
	postRepo repository.PostRepository
	files    storage.Store
}

// CreatePostInput is the payload for creating a post.
type CreatePostInput struct {
	CreatorID uint
	Title     string
	Content   string
	ImageURL  string
}

// UpdatePostInput is the payload for updating a post. An empty ImageURL means
// the stored image reference stays unchanged.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository, files storage.Store) *PostService {
	return &PostService{postRepo: postRepo, files: files}
}

// CreatePost validates the input and inserts the post. The creator
// back-reference is established in the same row write, so both sides of the
// user/post relationship are consistent after the insert commits.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.PostInput(in.Title, in.Content, in.ImageURL, true).Err(); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		CreatorID: in.CreatorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Re-read so the response carries the resolved creator.
	return s.GetPost(ctx, post.ID)
}

// GetPost loads a single post with its creator resolved.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}

// ListPage returns one fixed-size page of posts, newest first, together with
// the unfiltered total count. Page numbers below 1 read as page 1; pages past
// the end return an empty list with the correct total.
func (s *PostService) ListPage(ctx context.Context, page int) ([]*models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	posts, err := s.postRepo.ListPage(ctx, PageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost mutates a post's title, content, and optionally its image
// reference. Only the creator may update; the existence check runs before the
// ownership check, and both run before the new values are validated.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.CreatorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if err := validation.PostInput(in.Title, in.Content, in.ImageURL, false).Err(); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its stored image. Only the creator may
// delete. The row delete also retracts the post from the owner's post set;
// image removal is best-effort and never fails the call.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.CreatorID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.files != nil && post.ImageURL != "" {
		if err := s.files.Remove(post.ImageURL); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove stored image",
				slog.String("path", post.ImageURL),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
