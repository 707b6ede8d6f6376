package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/coinly/coinly/internal/dashboard"
	"github.com/coinly/coinly/internal/model"
	"github.com/coinly/coinly/pkg/currency"
)

// Screen headings and placeholder texts.
const (
	TextLoading        = "Loading your dashboard..."
	TextLoggedOut      = "Please log in to access your dashboard"
	TextSetupTitle     = "Welcome to Your Finance Tracker!"
	TextSetupIntro     = "Let's set up your financial profile to get started."
	TextNoTransactions = "No transactions yet. Add your first transaction to get started!"
	TextNoDescription  = "No description"
)

const defaultBarWidth = 20

type Options struct {
	Currency currency.Currency
	// BarWidth is the number of cells in a goal progress bar.
	BarWidth int
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = currency.DefaultCurrency
	}
	if o.BarWidth <= 0 {
		o.BarWidth = defaultBarWidth
	}
	return o
}

// Render writes a text rendition of snap. A profile that has not completed setup
// is only ever shown the setup form.
func Render(w io.Writer, snap dashboard.Snapshot, opts Options) error {
	opts = opts.withDefaults()
	r := &renderer{w: w, opts: opts}

	switch snap.State {
	case dashboard.StateUnauthenticated:
		r.line(TextLoggedOut)
	case dashboard.StateLoading:
		r.loading(snap)
	case dashboard.StateSetupMode:
		r.setup(snap.SetupDraft)
	case dashboard.StateReady:
		r.ready(snap)
	default:
		return fmt.Errorf("unknown dashboard state %q", snap.State)
	}
	return r.err
}

type renderer struct {
	w    io.Writer
	opts Options
	err  error
}

func (r *renderer) line(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *renderer) loading(snap dashboard.Snapshot) {
	r.line(TextLoading)
	if snap.LoadError != nil {
		r.line("Could not load your dashboard. Type 'retry' to try again.")
	}
}

func (r *renderer) setup(d model.SetupDraft) {
	r.line(TextSetupTitle)
	r.line(TextSetupIntro)
	r.line("")
	r.line("Current Account Balance: %s", Amount(d.CurrentBalance, r.opts.Currency))

	r.line("")
	r.line("Fixed Income Sources")
	r.table(func(tw *tabwriter.Writer) {
		for i, inc := range d.FixedIncomes {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\n", i+1, orDash(inc.Title),
				Amount(inc.Amount, r.opts.Currency), CategoryLabel(string(inc.Frequency)))
		}
	})

	r.line("")
	r.line("Fixed Expenses")
	r.table(func(tw *tabwriter.Writer) {
		for i, exp := range d.FixedExpenses {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\t%s\n", i+1, orDash(exp.Title),
				Amount(exp.Amount, r.opts.Currency), CategoryLabel(string(exp.Frequency)),
				CategoryLabel(exp.Category))
		}
	})

	r.line("")
	r.line("Financial Goals")
	r.table(func(tw *tabwriter.Writer) {
		for i, g := range d.Goals {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\tby %s\n", i+1, orDash(g.Title),
				CategoryLabel(string(g.Type)), Amount(g.TargetAmount, r.opts.Currency), g.EndDate.Display())
		}
	})

	r.line("")
	r.line("Commands: income, expense, goal, submit")
}

func (r *renderer) ready(snap dashboard.Snapshot) {
	p := snap.Profile
	if p == nil {
		r.line(TextLoading)
		return
	}

	r.line("Welcome back, %s!", p.Name)
	r.line("Here's your financial overview")
	r.line("")
	r.line("Current Balance: %s", Amount(p.CurrentBalance, r.opts.Currency))

	if len(p.Goals) > 0 {
		r.line("")
		r.line("Your Goals")
		for _, g := range p.Goals {
			prog := Progress(g)
			r.line("  %s (%s)", g.Title, CategoryLabel(string(g.Type)))
			r.line("    %s / %s", Amount(g.CurrentAmount, r.opts.Currency), Amount(g.TargetAmount, r.opts.Currency))
			r.line("    %s %s", Bar(prog, r.opts.BarWidth), prog.Label)
			r.line("    Target: %s", g.EndDate.ToDate().Display())
		}
	}

	r.line("")
	r.line("Recent Transactions")
	if len(p.Transactions) == 0 {
		r.line(TextNoTransactions)
	} else {
		r.table(func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tDate\tDescription\tCategory\tAmount")
			for _, tx := range p.Transactions {
				desc := tx.Description
				if desc == "" {
					desc = TextNoDescription
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date.ToDate().Display(), desc,
					CategoryLabel(tx.Category), SignedAmount(tx, r.opts.Currency))
			}
		})
	}

	if snap.FormOpen {
		r.form(snap)
	}
}

func (r *renderer) form(snap dashboard.Snapshot) {
	f := snap.TransactionForm
	r.line("")
	r.line("Add Transaction")
	r.line("  Type:        %s", CategoryLabel(string(f.Type)))
	category := "Select a category"
	if f.Category != "" {
		category = CategoryLabel(f.Category)
	}
	r.line("  Category:    %s", category)
	r.line("  Amount:      %s", Amount(f.Amount, r.opts.Currency))
	r.line("  Description: %s", f.Description)
	r.line("  Notes:       %s", f.Notes)

	options := make([]string, 0, len(snap.CategoryOptions()))
	for _, c := range snap.CategoryOptions() {
		options = append(options, CategoryLabel(c))
	}
	r.line("  Options:     %s", strings.Join(options, ", "))
}

func (r *renderer) table(fill func(tw *tabwriter.Writer)) {
	if r.err != nil {
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fill(tw)
	r.err = tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
