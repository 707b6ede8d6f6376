package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coinly/coinly/internal/apperror"
	"github.com/coinly/coinly/internal/identity"
	"github.com/coinly/coinly/internal/model"
	"github.com/coinly/coinly/internal/repository"
	"github.com/coinly/coinly/pkg/datetime"
)

// BlogService publishes and lists community blog posts.
type BlogService struct {
	repo repository.BlogRepositoryInterface
	now  func() time.Time
}

func NewBlogService(repo repository.BlogRepositoryInterface) *BlogService {
	return &BlogService{repo: repo, now: time.Now}
}

// List returns every post, newest first.
func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	blogs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	if blogs == nil {
		blogs = []model.Blog{}
	}
	return blogs, nil
}

// Create publishes a post authored by the caller. The author is the display
// name, or the email when the identity has no name.
func (s *BlogService) Create(ctx context.Context, author *identity.Identity, input model.BlogInput) (*model.Blog, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, apperror.ValidationError("title", "title is required")
	}
	if content == "" {
		return nil, apperror.ValidationError("content", "content is required")
	}

	name := author.Name
	if name == "" {
		name = author.Email
	}

	blog := &model.Blog{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Author:    name,
		CreatedAt: datetime.DateTime{Time: s.now().UTC()},
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}
	return blog, nil
}
