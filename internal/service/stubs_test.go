package service

import (
	"context"
	"errors"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub implements repository.UserRepository with overridable funcs.
type userRepoStub struct {
	createFn     func(ctx context.Context, user *models.User) error
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	getByIDFn    func(ctx context.Context, id uint) (*models.User, error)
	updateFn     func(ctx context.Context, user *models.User) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(context.Context, *models.User) error { return nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		getByIDFn:    func(context.Context, uint) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
		updateFn:     func(context.Context, *models.User) error { return nil },
	}
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

// postRepoStub implements repository.PostRepository with overridable funcs.
type postRepoStub struct {
	createFn   func(ctx context.Context, post *models.Post) error
	getByIDFn  func(ctx context.Context, id uint) (*models.Post, error)
	listPageFn func(ctx context.Context, limit, offset int) ([]*models.Post, error)
	countFn    func(ctx context.Context) (int64, error)
	updateFn   func(ctx context.Context, post *models.Post) error
	deleteFn   func(ctx context.Context, id uint) error
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:   func(context.Context, *models.Post) error { return nil },
		getByIDFn:  func(context.Context, uint) (*models.Post, error) { return nil, gorm.ErrRecordNotFound },
		listPageFn: func(context.Context, int, int) ([]*models.Post, error) { return nil, nil },
		countFn:    func(context.Context) (int64, error) { return 0, nil },
		updateFn:   func(context.Context, *models.Post) error { return nil },
		deleteFn:   func(context.Context, uint) error { return nil },
	}
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func (s *postRepoStub) ListPage(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listPageFn(ctx, limit, offset)
}

func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// fileStoreStub records removals for side-effect assertions.
type fileStoreStub struct {
	removed   []string
	removeErr error
}

func (s *fileStoreStub) Save(content []byte, ext string) (string, error) {
	return "images/stub" + ext, nil
}

func (s *fileStoreStub) Remove(path string) error {
	s.removed = append(s.removed, path)
	return s.removeErr
}

func assertAppError(t *testing.T, err error, kind string, status int) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, status, appErr.Status)
	return appErr
}
