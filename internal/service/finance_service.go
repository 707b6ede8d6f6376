// Package service implements the business logic of the dev stub server: the
// Finance API the dashboard talks to and the blog feed.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinly/coinly/internal/apperror"
	"github.com/coinly/coinly/internal/identity"
	"github.com/coinly/coinly/internal/model"
	"github.com/coinly/coinly/internal/repository"
	"github.com/coinly/coinly/pkg/datetime"
)

// DefaultCategories is the taxonomy served by GET /categories.
var DefaultCategories = model.Categories{
	Income: []string{
		"SALARY", "FREELANCE", "BUSINESS", "INVESTMENT", "RENTAL", "GIFT", "OTHER_INCOME",
	},
	Expense: []string{
		"RENT", "FOOD", "TRANSPORT", "UTILITIES", "HEALTHCARE", "ENTERTAINMENT",
		"SHOPPING", "EDUCATION", "INSURANCE", "OTHER_EXPENSE",
	},
}

// FinanceService owns the per-user profile: balance, transactions and goals.
type FinanceService struct {
	repo       repository.ProfileRepositoryInterface
	categories model.Categories
	now        func() time.Time
}

// NewFinanceService creates a FinanceService serving DefaultCategories.
func NewFinanceService(repo repository.ProfileRepositoryInterface) *FinanceService {
	return &FinanceService{
		repo:       repo,
		categories: *DefaultCategories.Clone(),
		now:        time.Now,
	}
}

func (s *FinanceService) Categories(ctx context.Context) (*model.Categories, error) {
	return s.categories.Clone(), nil
}

// Dashboard returns the caller's profile, creating an empty one on first access.
func (s *FinanceService) Dashboard(ctx context.Context, id *identity.Identity) (*model.UserData, error) {
	profile, err := s.repo.GetOrCreate(ctx, id.UserID, func() *repository.Profile {
		return &repository.Profile{
			Data: model.UserData{
				ID:           id.UserID,
				Name:         id.Name,
				Email:        id.Email,
				Transactions: []model.Transaction{},
				Goals:        []model.Goal{},
			},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile.Data, nil
}

// CompleteSetup stores the first-time setup and marks the profile complete.
// A profile can be set up once.
func (s *FinanceService) CompleteSetup(ctx context.Context, id *identity.Identity, input model.SetupPayload) (*model.UserData, error) {
	if err := validateSetup(input); err != nil {
		return nil, err
	}
	if _, err := s.Dashboard(ctx, id); err != nil {
		return nil, err
	}

	profile, err := s.repo.Update(ctx, id.UserID, func(p *repository.Profile) error {
		if p.Data.IsSetupComplete {
			return apperror.Conflict("setup already completed")
		}
		p.Data.CurrentBalance = input.CurrentBalance
		p.FixedIncomes = append([]model.FixedIncome(nil), input.FixedIncomes...)
		p.FixedExpenses = append([]model.FixedExpense(nil), input.FixedExpenses...)

		goals := make([]model.Goal, 0, len(input.Goals))
		for _, g := range input.Goals {
			goals = append(goals, model.Goal{
				ID:           uuid.NewString(),
				Title:        g.Title,
				Type:         g.Type,
				TargetAmount: g.TargetAmount,
				EndDate:      g.EndDate,
				Description:  g.Description,
			})
		}
		p.Data.Goals = goals
		p.Data.IsSetupComplete = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete setup: %w", err)
	}
	return &profile.Data, nil
}

func validateSetup(input model.SetupPayload) error {
	for _, inc := range input.FixedIncomes {
		if inc.Amount.IsNegative() {
			return apperror.ValidationError("fixedIncomes", "amount must not be negative")
		}
		if !validFrequency(inc.Frequency) {
			return apperror.ValidationError("fixedIncomes", "invalid frequency")
		}
	}
	for _, exp := range input.FixedExpenses {
		if exp.Amount.IsNegative() {
			return apperror.ValidationError("fixedExpenses", "amount must not be negative")
		}
		if !validFrequency(exp.Frequency) {
			return apperror.ValidationError("fixedExpenses", "invalid frequency")
		}
	}
	for _, g := range input.Goals {
		if g.TargetAmount.IsNegative() {
			return apperror.ValidationError("goals", "target amount must not be negative")
		}
		if !validGoalType(g.Type) {
			return apperror.ValidationError("goals", "invalid goal type")
		}
	}
	return nil
}

func validFrequency(f model.Frequency) bool {
	return slices.Contains(model.Frequencies, f)
}

func validGoalType(t model.GoalType) bool {
	return slices.Contains(model.GoalTypes, t)
}

// CreateTransaction records a transaction and adjusts the balance by its signed amount.
func (s *FinanceService) CreateTransaction(ctx context.Context, id *identity.Identity, input model.TransactionForm) (*model.Transaction, error) {
	if !input.Type.Valid() {
		return nil, apperror.ValidationError("type", "type must be INCOME or EXPENSE")
	}
	if !s.categories.Contains(input.Type, input.Category) {
		return nil, apperror.ValidationError("category", "category does not match the transaction type")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.ValidationError("amount", "amount must be greater than zero")
	}
	if _, err := s.Dashboard(ctx, id); err != nil {
		return nil, err
	}

	tx := model.Transaction{
		ID:          uuid.NewString(),
		Type:        input.Type,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		Notes:       strings.TrimSpace(input.Notes),
		Date:        datetime.DateTime{Time: s.now().UTC()},
	}

	_, err := s.repo.Update(ctx, id.UserID, func(p *repository.Profile) error {
		p.Data.CurrentBalance = p.Data.CurrentBalance.Add(signed(tx))
		p.Data.Transactions = append([]model.Transaction{tx}, p.Data.Transactions...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return &tx, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the balance.
func (s *FinanceService) DeleteTransaction(ctx context.Context, id *identity.Identity, transactionID string) error {
	_, err := s.repo.Update(ctx, id.UserID, func(p *repository.Profile) error {
		for i, tx := range p.Data.Transactions {
			if tx.ID != transactionID {
				continue
			}
			p.Data.CurrentBalance = p.Data.CurrentBalance.Sub(signed(tx))
			p.Data.Transactions = append(p.Data.Transactions[:i], p.Data.Transactions[i+1:]...)
			return nil
		}
		return apperror.NotFound("transaction")
	})
	if errors.Is(err, repository.ErrProfileNotFound) {
		return apperror.NotFound("transaction")
	}
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func signed(tx model.Transaction) decimal.Decimal {
	if tx.Type == model.TransactionTypeExpense {
		return tx.Amount.Neg()
	}
	return tx.Amount
}
