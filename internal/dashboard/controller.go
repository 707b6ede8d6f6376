// Package dashboard owns the client-side view of a user's finances: the first-time
// setup flow, the transaction ledger and goal progress. All data lives in the Finance
// API; the controller keeps a mirror that is replaced wholesale after every mutation.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/coinly/coinly/internal/apperror"
	"github.com/coinly/coinly/internal/identity"
	"github.com/coinly/coinly/internal/logger"
	"github.com/coinly/coinly/internal/model"
)

// User-facing alert texts.
const (
	MsgSetupFailed     = "Error completing setup. Please try again."
	MsgCreateFailed    = "Error creating transaction. Please try again."
	MsgDeleteFailed    = "Error deleting transaction. Please try again."
	MsgConfirmDeletion = "Are you sure you want to delete this transaction?"
)

var (
	// ErrInvalidState is returned when an operation is not offered in the current state.
	ErrInvalidState = errors.New("operation not available in the current state")
	// ErrSessionChanged is returned when the session changed while a call was in flight.
	ErrSessionChanged = errors.New("session changed during request")
)

// State is the controller's position in the session lifecycle.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateSetupMode       State = "setup"
	StateReady           State = "ready"
)

// FinanceAPI is the subset of the Finance API the controller consumes.
type FinanceAPI interface {
	Categories(ctx context.Context) (*model.Categories, error)
	Dashboard(ctx context.Context) (*model.UserData, error)
	Setup(ctx context.Context, draft model.SetupDraft) error
	CreateTransaction(ctx context.Context, form model.TransactionForm) error
	DeleteTransaction(ctx context.Context, id string) error
}

// Prompter shows blocking dialogs to the user.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	State           State
	Identity        *identity.Identity
	Profile         *model.UserData
	Categories      *model.Categories
	SetupDraft      model.SetupDraft
	TransactionForm model.TransactionForm
	FormOpen        bool
	// LoadError is set while the initial load has failed and can be retried.
	LoadError error
}

// CategoryOptions returns the categories selectable for the form's current type.
func (s Snapshot) CategoryOptions() []string {
	return s.Categories.For(s.TransactionForm.Type)
}

// Controller is safe for concurrent use. No lock is held across network calls.
type Controller struct {
	api     FinanceAPI
	session identity.SessionProvider
	prompt  Prompter
	log     *slog.Logger

	startOnce   sync.Once
	unsubscribe func()
	baseCtx     context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	mu         sync.Mutex
	state      State
	identity   *identity.Identity
	generation uint64
	profile    *model.UserData
	categories *model.Categories
	draft      model.SetupDraft
	form       model.TransactionForm
	formOpen   bool
	loadErr    error
	issuedSeq  uint64
	appliedSeq uint64
	listeners  []func(Snapshot)
}

// New creates a controller. Call Start to begin following the session.
func New(api FinanceAPI, session identity.SessionProvider, prompt Prompter) *Controller {
	if prompt == nil {
		prompt = declinePrompter{}
	}
	return &Controller{
		api:     api,
		session: session,
		prompt:  prompt,
		log:     logger.Logger().With("component", "dashboard"),
		state:   StateUnauthenticated,
		draft:   model.NewSetupDraft(),
		form:    model.NewTransactionForm(),
	}
}

// OnChange registers fn to be called with a fresh snapshot after every state change.
// Register listeners before Start.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Start subscribes to the session provider. Only the first call has an effect.
// Loads triggered by session changes run under ctx until Close.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.baseCtx, c.cancel = context.WithCancel(ctx)
		c.unsubscribe = c.session.Subscribe(c.onSessionChange)
	})
}

// Close unsubscribes from the session provider and waits for in-flight loads.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Wait blocks until loads started by session changes have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// View returns a snapshot of the current state.
func (c *Controller) View() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) onSessionChange(id *identity.Identity) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.resetLocked()
	if id == nil {
		c.state = StateUnauthenticated
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.log.Info("signed out")
		c.notify(snap)
		return
	}
	c.identity = id
	c.state = StateLoading
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.loadSession(c.baseCtx, gen)
	}()
}

// loadSession fetches the taxonomy and then the profile. On failure the
// controller stays in Loading and records the error for Retry.
func (c *Controller) loadSession(ctx context.Context, gen uint64) error {
	cats, err := c.api.Categories(ctx)
	if err != nil {
		return c.failLoad(gen, fmt.Errorf("loading categories: %w", err))
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSessionChanged
	}
	c.categories = cats.Clone()
	c.mu.Unlock()

	if err := c.refetch(ctx, gen); err != nil {
		return c.failLoad(gen, fmt.Errorf("loading dashboard: %w", err))
	}
	return nil
}

func (c *Controller) failLoad(gen uint64, err error) error {
	if errors.Is(err, ErrSessionChanged) {
		return err
	}
	c.log.Error("error loading data", "error", err)

	c.mu.Lock()
	if gen != c.generation || c.state != StateLoading {
		c.mu.Unlock()
		return err
	}
	c.loadErr = err
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return err
}

// Retry re-runs a failed initial load.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateLoading || c.identity == nil {
		c.mu.Unlock()
		return ErrInvalidState
	}
	gen := c.generation
	c.loadErr = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	return c.loadSession(ctx, gen)
}

// Refresh refetches the full profile. It is not offered while the initial load
// is outstanding or has failed; only Retry re-runs that load.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	state, gen := c.state, c.generation
	c.mu.Unlock()

	switch state {
	case StateUnauthenticated:
		return apperror.ErrUnauthenticated
	case StateLoading:
		return ErrInvalidState
	}
	if err := c.refetch(ctx, gen); err != nil {
		if !errors.Is(err, ErrSessionChanged) {
			c.log.Error("error refreshing dashboard", "error", err)
		}
		return err
	}
	return nil
}

// refetch issues one GET /dashboard. The response replaces the mirror only if
// no later-issued refetch has been applied and the session is unchanged.
func (c *Controller) refetch(ctx context.Context, gen uint64) error {
	c.mu.Lock()
	c.issuedSeq++
	seq := c.issuedSeq
	c.mu.Unlock()

	data, err := c.api.Dashboard(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSessionChanged
	}
	if seq <= c.appliedSeq {
		applied := c.appliedSeq
		c.mu.Unlock()
		c.log.Debug("discarding stale dashboard response", "seq", seq, "applied", applied)
		return nil
	}
	c.appliedSeq = seq
	c.profile = data.Clone()
	c.loadErr = nil
	if data.IsSetupComplete || c.state == StateReady {
		c.state = StateReady
	} else {
		c.state = StateSetupMode
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// AddFixedIncome appends a blank fixed-income row.
func (c *Controller) AddFixedIncome() {
	c.UpdateSetupDraft(func(d *model.SetupDraft) {
		d.FixedIncomes = append(d.FixedIncomes, model.NewFixedIncome())
	})
}

// AddFixedExpense appends a blank fixed-expense row.
func (c *Controller) AddFixedExpense() {
	c.UpdateSetupDraft(func(d *model.SetupDraft) {
		d.FixedExpenses = append(d.FixedExpenses, model.NewFixedExpense())
	})
}

// AddGoal appends a blank goal row.
func (c *Controller) AddGoal() {
	c.UpdateSetupDraft(func(d *model.SetupDraft) {
		d.Goals = append(d.Goals, model.NewGoalDraft())
	})
}

// UpdateSetupDraft applies fn to a copy of the draft and stores the result.
func (c *Controller) UpdateSetupDraft(fn func(*model.SetupDraft)) {
	c.mu.Lock()
	draft := c.draft.Clone()
	fn(&draft)
	c.draft = draft
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// LoadSetupDraft replaces the draft with one read from YAML. Rows missing a
// frequency, category or goal type get the same defaults as blank rows.
func (c *Controller) LoadSetupDraft(r io.Reader) error {
	draft := model.NewSetupDraft()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&draft); err != nil && !errors.Is(err, io.EOF) {
		return apperror.ValidationError("setup draft", fmt.Sprintf("invalid setup file: %v", err))
	}
	for i := range draft.FixedIncomes {
		if draft.FixedIncomes[i].Frequency == "" {
			draft.FixedIncomes[i].Frequency = model.FrequencyMonthly
		}
	}
	for i := range draft.FixedExpenses {
		if draft.FixedExpenses[i].Frequency == "" {
			draft.FixedExpenses[i].Frequency = model.FrequencyMonthly
		}
		if draft.FixedExpenses[i].Category == "" {
			draft.FixedExpenses[i].Category = model.DefaultExpenseCategory
		}
	}
	for i := range draft.Goals {
		if draft.Goals[i].Type == "" {
			draft.Goals[i].Type = model.GoalTypeSavings
		}
	}

	c.UpdateSetupDraft(func(d *model.SetupDraft) { *d = draft })
	return nil
}

// SubmitSetup sends the draft. On success the profile is refetched once, the
// controller becomes Ready and the draft is discarded. On failure the user is
// alerted and the draft is kept for another attempt.
func (c *Controller) SubmitSetup(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateSetupMode {
		c.mu.Unlock()
		return ErrInvalidState
	}
	gen := c.generation
	draft := c.draft.Clone()
	c.mu.Unlock()

	err := c.api.Setup(ctx, draft)
	if err == nil {
		err = c.refetch(ctx, gen)
	}
	if err != nil {
		return c.mutationFailed(err, "error completing setup", MsgSetupFailed)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSessionChanged
	}
	c.state = StateReady
	c.draft = model.NewSetupDraft()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// OpenTransactionForm shows the add-transaction form.
func (c *Controller) OpenTransactionForm() error {
	return c.editForm(func() error {
		if c.state != StateReady {
			return ErrInvalidState
		}
		c.formOpen = true
		return nil
	})
}

// CloseTransactionForm hides the form without clearing it.
func (c *Controller) CloseTransactionForm() {
	_ = c.editForm(func() error {
		c.formOpen = false
		return nil
	})
}

// SetTransactionType switches the form's type and clears its category, since
// categories are only valid for the type they were listed under.
func (c *Controller) SetTransactionType(t model.TransactionType) error {
	return c.editForm(func() error {
		if !t.Valid() {
			return apperror.ValidationError("type", fmt.Sprintf("unknown transaction type %q", t))
		}
		c.form.Type = t
		c.form.Category = ""
		return nil
	})
}

// SetTransactionCategory selects a category. Only categories listed for the
// form's current type can be selected; the empty string clears the selection.
func (c *Controller) SetTransactionCategory(category string) error {
	return c.editForm(func() error {
		if category != "" && !c.categories.Contains(c.form.Type, category) {
			return apperror.ValidationError("category",
				fmt.Sprintf("%q is not a %s category", category, c.form.Type))
		}
		c.form.Category = category
		return nil
	})
}

// SetTransactionAmount sets the form's amount. Negative amounts are rejected.
func (c *Controller) SetTransactionAmount(amount decimal.Decimal) error {
	return c.editForm(func() error {
		if amount.IsNegative() {
			return apperror.ValidationError("amount", "amount cannot be negative")
		}
		c.form.Amount = amount
		return nil
	})
}

// SetTransactionDescription sets the form's description.
func (c *Controller) SetTransactionDescription(description string) {
	_ = c.editForm(func() error {
		c.form.Description = description
		return nil
	})
}

// SetTransactionNotes sets the form's free-text notes.
func (c *Controller) SetTransactionNotes(notes string) {
	_ = c.editForm(func() error {
		c.form.Notes = notes
		return nil
	})
}

func (c *Controller) editForm(fn func() error) error {
	c.mu.Lock()
	if err := fn(); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// SubmitTransaction creates a transaction from the form. On success the profile
// is refetched once and the form is closed and reset. On failure the user is
// alerted and the form stays open with its values.
func (c *Controller) SubmitTransaction(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReady || !c.formOpen {
		c.mu.Unlock()
		return ErrInvalidState
	}
	form := c.form
	if !c.categories.Contains(form.Type, form.Category) {
		c.mu.Unlock()
		return apperror.ValidationError("category", "select a category")
	}
	gen := c.generation
	c.mu.Unlock()

	err := c.api.CreateTransaction(ctx, form)
	if err == nil {
		err = c.refetch(ctx, gen)
	}
	if err != nil {
		return c.mutationFailed(err, "error creating transaction", MsgCreateFailed)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSessionChanged
	}
	c.formOpen = false
	c.form = model.NewTransactionForm()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// DeleteTransaction asks for confirmation and, if given, deletes the transaction
// and refetches the profile once. Declining sends nothing and changes nothing.
func (c *Controller) DeleteTransaction(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrInvalidState
	}
	gen := c.generation
	c.mu.Unlock()

	if !c.prompt.Confirm(MsgConfirmDeletion) {
		return nil
	}

	err := c.api.DeleteTransaction(ctx, id)
	if err == nil {
		err = c.refetch(ctx, gen)
	}
	if err != nil {
		return c.mutationFailed(err, "error deleting transaction", MsgDeleteFailed)
	}
	return nil
}

// mutationFailed logs err and alerts the user, unless the session ended while
// the call was in flight.
func (c *Controller) mutationFailed(err error, logMsg, alert string) error {
	if errors.Is(err, ErrSessionChanged) {
		return err
	}
	c.log.Error(logMsg, "error", err)
	c.prompt.Alert(alert)
	return fmt.Errorf("%s: %w", logMsg, err)
}

func (c *Controller) resetLocked() {
	c.identity = nil
	c.profile = nil
	c.categories = nil
	c.draft = model.NewSetupDraft()
	c.form = model.NewTransactionForm()
	c.formOpen = false
	c.loadErr = nil
}

func (c *Controller) snapshotLocked() Snapshot {
	var id *identity.Identity
	if c.identity != nil {
		cp := *c.identity
		id = &cp
	}
	return Snapshot{
		State:           c.state,
		Identity:        id,
		Profile:         c.profile.Clone(),
		Categories:      c.categories.Clone(),
		SetupDraft:      c.draft.Clone(),
		TransactionForm: c.form,
		FormOpen:        c.formOpen,
		LoadError:       c.loadErr,
	}
}

func (c *Controller) notify(snap Snapshot) {
	c.mu.Lock()
	listeners := append([]func(Snapshot){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// declinePrompter is used when no prompter is configured: it declines every
// confirmation and logs alerts.
type declinePrompter struct{}

func (declinePrompter) Confirm(string) bool { return false }

func (declinePrompter) Alert(message string) {
	logger.Warn("alert", "message", message)
}
