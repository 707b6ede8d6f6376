package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/coinly/coinly/internal/apiclient"
	"github.com/coinly/coinly/internal/dashboard"
	"github.com/coinly/coinly/internal/identity"
	"github.com/coinly/coinly/internal/logger"
	"github.com/coinly/coinly/internal/model"
	"github.com/coinly/coinly/internal/scheduler"
	"github.com/coinly/coinly/internal/view"
	"github.com/coinly/coinly/pkg/currency"
	"github.com/coinly/coinly/pkg/datetime"
)

const dashboardHelp = `Commands:
  refresh            reload the dashboard
  retry              retry a failed load
  add                add a transaction
  delete <id>        delete a transaction
  balance <amount>   set the starting balance (setup)
  income             add a fixed income (setup)
  expense            add a fixed expense (setup)
  goal               add a goal (setup)
  submit             complete setup
  login              sign in as another user
  logout             sign out
  help               show this help
  quit               exit`

func newDashboardCommand(app *App) *cobra.Command {
	var email, password, setupFile string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open your financial dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			term := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout())

			provider, err := newProvider(app)
			if err != nil {
				return err
			}
			if err := signIn(provider, term, email, password); err != nil {
				return err
			}

			api := apiclient.NewFinanceClient(cfg.FinanceAPIURL, app.httpClient(), provider)
			ctrl := dashboard.New(api, provider, term)
			ctrl.Start(cmd.Context())
			defer ctrl.Close()
			ctrl.Wait()

			if setupFile != "" {
				if err := loadSetupFile(ctrl, setupFile); err != nil {
					return err
				}
			}

			if refresh || cfg.Refresh.Enabled {
				sched := scheduler.New(scheduler.Config{
					Schedule: cfg.Refresh.Schedule,
					Timeout:  cfg.Refresh.Timeout,
					Enabled:  true,
				}, ctrl, logger.Logger())
				if err := sched.Start(); err != nil {
					return fmt.Errorf("starting refresh scheduler: %w", err)
				}
				defer func() { <-sched.Stop().Done() }()
			}

			session := &dashboardSession{
				ctrl:     ctrl,
				provider: provider,
				term:     term,
				opts:     view.Options{Currency: currency.Parse(cfg.Currency)},
			}
			return session.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email to sign in with")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	cmd.Flags().StringVar(&setupFile, "setup-file", "", "YAML file to prefill the setup form")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refresh the dashboard in the background on REFRESH_SCHEDULE")

	return cmd
}

func newProvider(app *App) (*identity.LocalProvider, error) {
	users, err := identity.LoadUsersFile(app.Config.UsersFile)
	if err != nil {
		return nil, err
	}
	return identity.NewLocalProvider(app.Config.JWTSecret, app.Config.TokenTTL, users), nil
}

// signIn prompts for whatever credentials were not given as flags.
func signIn(provider *identity.LocalProvider, term *terminal, email, password string) error {
	var err error
	if email == "" {
		if email, err = term.ask("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = term.askSecret("Password: "); err != nil {
			return err
		}
	}
	if _, err := provider.SignIn(email, password); err != nil {
		return fmt.Errorf("signing in as %s: %w", email, err)
	}
	return nil
}

func loadSetupFile(ctrl *dashboard.Controller, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening setup file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ctrl.LoadSetupDraft(f)
}

// dashboardSession is the interactive loop: render, read a command, run it.
type dashboardSession struct {
	ctrl     *dashboard.Controller
	provider *identity.LocalProvider
	term     *terminal
	opts     view.Options
}

func (s *dashboardSession) run(ctx context.Context) error {
	for {
		s.ctrl.Wait()
		if err := view.Render(s.term.out, s.ctrl.View(), s.opts); err != nil {
			return err
		}

		line, err := s.term.ask("> ")
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.dispatch(ctx, fields[0], fields[1:]); err != nil {
			if errors.Is(err, errEndOfInput) {
				return nil
			}
			fmt.Fprintf(s.term.out, "error: %v\n", err)
		}
	}
}

func (s *dashboardSession) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		fmt.Fprintln(s.term.out, dashboardHelp)
		return nil
	case "refresh":
		return s.ctrl.Refresh(ctx)
	case "retry":
		return s.ctrl.Retry(ctx)
	case "add":
		return s.addTransaction(ctx)
	case "delete":
		if len(args) != 1 {
			return errors.New("usage: delete <id>")
		}
		return s.ctrl.DeleteTransaction(ctx, args[0])
	case "balance":
		if len(args) != 1 {
			return errors.New("usage: balance <amount>")
		}
		if err := s.requireSetup(); err != nil {
			return err
		}
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}
		s.ctrl.UpdateSetupDraft(func(d *model.SetupDraft) { d.CurrentBalance = amount })
		return nil
	case "income":
		return s.addFixedIncome()
	case "expense":
		return s.addFixedExpense()
	case "goal":
		return s.addGoal()
	case "submit":
		return s.ctrl.SubmitSetup(ctx)
	case "login":
		return signIn(s.provider, s.term, "", "")
	case "logout":
		s.provider.SignOut()
		return nil
	default:
		return fmt.Errorf("unknown command %q, type 'help'", command)
	}
}

func (s *dashboardSession) requireSetup() error {
	if s.ctrl.View().State != dashboard.StateSetupMode {
		return dashboard.ErrInvalidState
	}
	return nil
}

// addTransaction walks through the transaction form and submits it. The form
// is closed again when an answer is rejected; a failed submission leaves it open.
func (s *dashboardSession) addTransaction(ctx context.Context) error {
	if err := s.ctrl.OpenTransactionForm(); err != nil {
		return err
	}
	if err := s.fillTransactionForm(); err != nil {
		s.ctrl.CloseTransactionForm()
		return err
	}
	return s.ctrl.SubmitTransaction(ctx)
}

func (s *dashboardSession) fillTransactionForm() error {
	typ, err := s.term.askDefault("Type (income/expense)", "expense")
	if err != nil {
		return err
	}
	if err := s.ctrl.SetTransactionType(model.TransactionType(strings.ToUpper(typ))); err != nil {
		return err
	}

	options := s.ctrl.View().CategoryOptions()
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o + " (" + view.CategoryLabel(o) + ")"
	}
	fmt.Fprintf(s.term.out, "Categories: %s\n", strings.Join(labels, ", "))
	category, err := s.term.ask("Category: ")
	if err != nil {
		return err
	}
	if err := s.ctrl.SetTransactionCategory(strings.ToUpper(category)); err != nil {
		return err
	}

	amount, err := s.askAmount("Amount: ")
	if err != nil {
		return err
	}
	if err := s.ctrl.SetTransactionAmount(amount); err != nil {
		return err
	}

	description, err := s.term.ask("Description: ")
	if err != nil {
		return err
	}
	s.ctrl.SetTransactionDescription(description)

	notes, err := s.term.ask("Notes: ")
	if err != nil {
		return err
	}
	s.ctrl.SetTransactionNotes(notes)
	return nil
}

// The setup commands fill the trailing blank row when there is one and
// append a new row otherwise.

func (s *dashboardSession) addFixedIncome() error {
	if err := s.requireSetup(); err != nil {
		return err
	}
	title, err := s.term.ask("Title: ")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Amount: ")
	if err != nil {
		return err
	}
	freq, err := s.askFrequency()
	if err != nil {
		return err
	}

	if rows := s.ctrl.View().SetupDraft.FixedIncomes; len(rows) == 0 || rows[len(rows)-1].Title != "" {
		s.ctrl.AddFixedIncome()
	}
	s.ctrl.UpdateSetupDraft(func(d *model.SetupDraft) {
		row := &d.FixedIncomes[len(d.FixedIncomes)-1]
		row.Title, row.Amount, row.Frequency = title, amount, freq
	})
	return nil
}

func (s *dashboardSession) addFixedExpense() error {
	if err := s.requireSetup(); err != nil {
		return err
	}
	title, err := s.term.ask("Title: ")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Amount: ")
	if err != nil {
		return err
	}
	freq, err := s.askFrequency()
	if err != nil {
		return err
	}
	category, err := s.term.askDefault("Category", model.DefaultExpenseCategory)
	if err != nil {
		return err
	}

	if rows := s.ctrl.View().SetupDraft.FixedExpenses; len(rows) == 0 || rows[len(rows)-1].Title != "" {
		s.ctrl.AddFixedExpense()
	}
	s.ctrl.UpdateSetupDraft(func(d *model.SetupDraft) {
		row := &d.FixedExpenses[len(d.FixedExpenses)-1]
		row.Title, row.Amount, row.Frequency, row.Category = title, amount, freq, strings.ToUpper(category)
	})
	return nil
}

func (s *dashboardSession) addGoal() error {
	if err := s.requireSetup(); err != nil {
		return err
	}
	title, err := s.term.ask("Title: ")
	if err != nil {
		return err
	}
	typ, err := s.term.askDefault("Type", string(model.GoalTypeSavings))
	if err != nil {
		return err
	}
	target, err := s.askAmount("Target amount: ")
	if err != nil {
		return err
	}
	rawDate, err := s.term.ask("End date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	endDate, err := datetime.ParseDate(rawDate)
	if err != nil {
		return fmt.Errorf("invalid date %q", rawDate)
	}
	description, err := s.term.ask("Description: ")
	if err != nil {
		return err
	}

	if rows := s.ctrl.View().SetupDraft.Goals; len(rows) == 0 || rows[len(rows)-1].Title != "" {
		s.ctrl.AddGoal()
	}
	s.ctrl.UpdateSetupDraft(func(d *model.SetupDraft) {
		row := &d.Goals[len(d.Goals)-1]
		row.Title = title
		row.Type = model.GoalType(strings.ToUpper(typ))
		row.TargetAmount = target
		row.EndDate = endDate
		row.Description = description
	})
	return nil
}

func (s *dashboardSession) askAmount(label string) (decimal.Decimal, error) {
	raw, err := s.term.ask(label)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

func (s *dashboardSession) askFrequency() (model.Frequency, error) {
	raw, err := s.term.askDefault("Frequency (weekly/monthly/quarterly/yearly)", "monthly")
	if err != nil {
		return "", err
	}
	return model.Frequency(strings.ToUpper(raw)), nil
}
