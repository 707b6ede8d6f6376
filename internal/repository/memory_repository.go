package repository

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/coinly/coinly/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is everything stored for a user: the dashboard data plus the fixed
// incomes and expenses captured during setup.
type Profile struct {
	Data          model.UserData
	FixedIncomes  []model.FixedIncome
	FixedExpenses []model.FixedExpense
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := &Profile{
		Data:          *p.Data.Clone(),
		FixedIncomes:  slices.Clone(p.FixedIncomes),
		FixedExpenses: slices.Clone(p.FixedExpenses),
	}
	return c
}

// MemoryStore keeps profiles and posts in memory. Data is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	blogs    []model.Blog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, userID string, init func() *Profile) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = init()
		s.profiles[userID] = p
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, userID string, fn func(*Profile) error) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	working := p.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.profiles[userID] = working
	return working.Clone(), nil
}

func (s *MemoryStore) Create(ctx context.Context, blog *model.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blogs = append(s.blogs, *blog)
	return nil
}

// List returns posts newest first.
func (s *MemoryStore) List(ctx context.Context) ([]model.Blog, error) {
	s.mu.RLock()
	blogs := slices.Clone(s.blogs)
	s.mu.RUnlock()

	slices.Reverse(blogs)
	return blogs, nil
}
