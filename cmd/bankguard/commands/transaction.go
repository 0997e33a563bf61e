package commands

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"bankguard/cmd/bankguard/output"
	"bankguard/internal/models"
	"bankguard/internal/services"
)

func (c *cli) transactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Post, query and summarize transactions",
	}
	cmd.AddCommand(
		c.txPostCmd(),
		c.txUpdateCmd(),
		c.txDeleteCmd(),
		c.txListCmd(),
		c.txSummaryCmd(),
		c.txReportCmd(),
	)
	return cmd
}

type txFlags struct {
	account  string
	amount   float64
	kind     string
	location string
	at       string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "Account number (CPT-10000)")
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "Amount, strictly positive")
	cmd.Flags().StringVar(&f.kind, "kind", "", "deposit, withdrawal or transfer")
	cmd.Flags().StringVar(&f.location, "location", "", "Where the transaction happened, e.g. \"Paris, France\"")
	cmd.Flags().StringVar(&f.at, "at", "", "Timestamp (RFC 3339 or YYYY-MM-DD HH:MM), defaults to now")
	for _, name := range []string{"account", "amount", "kind", "location"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *txFlags) input() (services.PostTransactionInput, error) {
	kind, err := models.ParseTransactionKind(f.kind)
	if err != nil {
		return services.PostTransactionInput{}, fmt.Errorf("%w: %q", services.ErrInvalidKind, f.kind)
	}
	at, err := parseTime(f.at)
	if err != nil {
		return services.PostTransactionInput{}, err
	}
	return services.PostTransactionInput{
		Timestamp:     at,
		Amount:        f.amount,
		Kind:          kind,
		Location:      f.location,
		AccountNumber: f.account,
	}, nil
}

func (c *cli) txPostCmd() *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:     "post",
		Short:   "Record a transaction against an account",
		Example: `  bankguard tx post --account CPT-10000 --amount 120.50 --kind deposit --location "Lyon, France"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			tx, err := c.app.Transactions.PostTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}
			if done, err := c.emit(tx); done {
				return err
			}
			output.Success(c.out, "%s of %s posted on %s (id %s)", tx.Kind, output.Money(tx.Amount), in.AccountNumber, tx.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) txUpdateCmd() *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "update <transaction-id>",
		Short: "Replace every field of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			if err := c.app.Transactions.UpdateTransaction(cmd.Context(), args[0], in); err != nil {
				return err
			}
			output.Success(c.out, "Transaction %s updated", args[0])
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Transactions.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}
			output.Success(c.out, "Transaction %s deleted", args[0])
			return nil
		},
	}
}

type txFilter struct {
	account   string
	client    string
	kind      string
	location  string
	minAmount float64
	maxAmount float64
	from      string
	to        string
}

func (f *txFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "Only this account number")
	cmd.Flags().StringVar(&f.client, "client", "", "Only accounts of this client id")
	cmd.Flags().StringVar(&f.kind, "kind", "", "Only this kind")
	cmd.Flags().StringVar(&f.location, "location", "", "Location fragment, case-insensitive")
	cmd.Flags().Float64Var(&f.minAmount, "min", 0, "Minimum amount, inclusive")
	cmd.Flags().Float64Var(&f.maxAmount, "max", math.Inf(1), "Maximum amount, inclusive")
	cmd.Flags().StringVar(&f.from, "from", "", "Start of the period, inclusive")
	cmd.Flags().StringVar(&f.to, "to", "", "End of the period, inclusive")
}

// apply loads the scoped transactions and narrows them with every filter set.
func (f *txFilter) apply(ctx context.Context, c *cli) ([]models.Transaction, error) {
	var txs []models.Transaction
	switch {
	case f.account != "":
		account, ok := c.app.Accounts.FindAccountByNumber(ctx, f.account)
		if !ok {
			return nil, fmt.Errorf("%w: %s", services.ErrAccountNotFound, f.account)
		}
		txs = c.app.Transactions.TransactionsByAccount(ctx, account.ID)
	case f.client != "":
		txs = c.app.Transactions.TransactionsByClient(ctx, f.client)
	default:
		txs = c.app.Transactions.AllTransactions(ctx)
	}

	if f.kind != "" {
		kind, err := models.ParseTransactionKind(f.kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", services.ErrInvalidKind, f.kind)
		}
		txs = services.FilterByKind(txs, kind)
	}
	txs = services.FilterByLocation(txs, f.location)
	txs = services.FilterByAmount(txs, f.minAmount, f.maxAmount)

	if f.from != "" || f.to != "" {
		var from, to time.Time
		var err error
		if f.from != "" {
			if from, err = parseTime(f.from); err != nil {
				return nil, err
			}
		}
		to = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
		if f.to != "" {
			if to, err = parseTime(f.to); err != nil {
				return nil, err
			}
		}
		txs = services.FilterByDateRange(txs, from, to)
	}
	return txs, nil
}

func (c *cli) txListCmd() *cobra.Command {
	var f txFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := f.apply(cmd.Context(), c)
			if err != nil {
				return err
			}
			if done, err := c.emit(txs); done {
				return err
			}
			if len(txs) == 0 {
				output.Info(c.out, "No transactions found")
				return nil
			}
			if err := c.txTable(txs); err != nil {
				return err
			}
			output.Muted(c.out, "%d transaction(s), volume %s", len(txs), output.Money(services.TotalAmount(txs)))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) txTable(txs []models.Transaction) error {
	tw := output.Table(c.out, "ID", "DATE", "KIND", "AMOUNT", "LOCATION")
	for _, t := range txs {
		output.Row(tw, t.ID, output.Date(t.Timestamp), string(t.Kind), output.Money(t.Amount), t.Location)
	}
	return tw.Flush()
}

type groupTotal struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

func totals[K comparable](groups map[K][]models.Transaction, label func(K) string) []groupTotal {
	out := make([]groupTotal, 0, len(groups))
	for key, txs := range groups {
		out = append(out, groupTotal{Key: label(key), Count: len(txs), Total: services.TotalAmount(txs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (c *cli) txSummaryCmd() *cobra.Command {
	var (
		f  txFilter
		by string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Group transactions by kind, month, day or location",
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := f.apply(cmd.Context(), c)
			if err != nil {
				return err
			}

			var groups []groupTotal
			switch by {
			case "kind":
				groups = totals(services.GroupByKind(txs), func(k models.TransactionKind) string { return string(k) })
			case "month":
				groups = totals(services.GroupByMonth(txs), models.YearMonth.String)
			case "day":
				groups = totals(services.GroupByDay(txs), models.Date.String)
			case "location":
				groups = totals(services.GroupByLocation(txs), func(l string) string { return l })
			default:
				return fmt.Errorf("--by must be kind, month, day or location, got %q", by)
			}

			if done, err := c.emit(groups); done {
				return err
			}
			output.Section(c.out, "Transactions by "+by)
			tw := output.Table(c.out, "GROUP", "COUNT", "TOTAL")
			for _, g := range groups {
				output.Row(tw, g.Key, fmt.Sprint(g.Count), output.Money(g.Total))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if avg, ok := services.AverageAmount(txs); ok {
				output.Muted(c.out, "average %s over %d transaction(s)", output.Money(avg), len(txs))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&by, "by", "kind", "Grouping: kind, month, day or location")
	return cmd
}

func (c *cli) txReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <number>",
		Short: "Summarize the transactions of one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			account, ok := c.app.Accounts.FindAccountByNumber(ctx, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", services.ErrAccountNotFound, args[0])
			}
			report, err := c.app.Transactions.TransactionReport(ctx, account.ID)
			if err != nil {
				return err
			}
			if done, err := c.emit(report); done {
				return err
			}

			output.Section(c.out, "Transactions of "+account.Number)
			fmt.Fprintf(c.out, "Count:    %d\n", report.Count)
			fmt.Fprintf(c.out, "Total:    %s\n", output.Money(report.Total))
			fmt.Fprintf(c.out, "Average:  %s\n\n", output.Money(report.Average))

			tw := output.Table(c.out, "KIND", "COUNT", "TOTAL")
			for _, k := range report.ByKind {
				output.Row(tw, string(k.Kind), fmt.Sprint(k.Count), output.Money(k.Total))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(report.HighAmount) > 0 {
				output.Warning(c.out, "%d transaction(s) above %s", len(report.HighAmount), output.Money(services.ReportHighAmountThreshold))
				return c.txTable(report.HighAmount)
			}
			return nil
		},
	}
}
