// Package blog keeps a local copy of the community blog feed.
package blog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/coinly/coinly/internal/apperror"
	"github.com/coinly/coinly/internal/identity"
	"github.com/coinly/coinly/internal/logger"
	"github.com/coinly/coinly/internal/model"
)

// API is the subset of the Blog API the feed consumes.
type API interface {
	List(ctx context.Context) ([]model.Blog, error)
	Create(ctx context.Context, input model.BlogInput) error
}

// Session reports the signed-in identity, if any.
type Session interface {
	Current() *identity.Identity
}

// Feed is safe for concurrent use.
type Feed struct {
	api     API
	session Session

	mu    sync.RWMutex
	posts []model.Blog
}

func NewFeed(api API, session Session) *Feed {
	return &Feed{api: api, session: session}
}

// Load fetches the post list. On failure the error is logged and the current
// list is kept.
func (f *Feed) Load(ctx context.Context) error {
	posts, err := f.api.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("error fetching blogs", "error", err)
		return fmt.Errorf("fetching blogs: %w", err)
	}

	f.mu.Lock()
	f.posts = posts
	f.mu.Unlock()
	return nil
}

// Post publishes a post as the signed-in user and then reloads the list.
// Without a signed-in user nothing is sent.
func (f *Feed) Post(ctx context.Context, title, content string) error {
	if f.session == nil || f.session.Current() == nil {
		return apperror.ErrUnauthenticated
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" {
		return apperror.ValidationError("title", "title is required")
	}
	if content == "" {
		return apperror.ValidationError("content", "content is required")
	}

	if err := f.api.Create(ctx, model.BlogInput{Title: title, Content: content}); err != nil {
		logger.FromContext(ctx).Error("error creating blog", "error", err)
		return fmt.Errorf("creating blog: %w", err)
	}
	return f.Load(ctx)
}

// Posts returns a copy of the current list.
func (f *Feed) Posts() []model.Blog {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]model.Blog(nil), f.posts...)
}

// Excerpt returns the plain text of content, HTML stripped and whitespace
// collapsed, cut to at most n runes with a trailing ellipsis when shortened.
func Excerpt(content string, n int) string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
