package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bankguard/cmd/bankguard/output"
	"bankguard/internal/models"
	"bankguard/internal/services"
	"bankguard/internal/validation"
)

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Ledger-wide reports",
	}
	cmd.AddCommand(
		c.reportTopClientsCmd(),
		c.reportMonthlyCmd(),
		c.reportInactiveCmd(),
		c.reportSuspiciousCmd(),
	)
	return cmd
}

func (c *cli) reportTopClientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top-clients",
		Short: "Rank clients by total balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			top := c.app.Reports.TopClientsByBalance(cmd.Context())
			if done, err := c.emit(top); done {
				return err
			}
			if len(top) == 0 {
				output.Info(c.out, "No clients found")
				return nil
			}

			output.Section(c.out, "Top clients by balance")
			tw := output.Table(c.out, "RANK", "NAME", "ACCOUNTS", "TOTAL")
			for i, entry := range top {
				output.Row(tw, fmt.Sprint(i+1), entry.Client.Name, fmt.Sprint(entry.AccountCount), output.Money(entry.TotalBalance))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) reportMonthlyCmd() *cobra.Command {
	now := time.Now()
	var year, month int
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Count and volume of transactions per kind for one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validation.IsValidYear(year) {
				return fmt.Errorf("%w: year %d", services.ErrValidation, year)
			}
			if !validation.IsValidMonth(month) {
				return fmt.Errorf("%w: month %d", services.ErrValidation, month)
			}

			report := c.app.Reports.MonthlyReport(cmd.Context(), models.YearMonth{Year: year, Month: time.Month(month)})
			if done, err := c.emit(report.Kinds()); done {
				return err
			}

			output.Section(c.out, "Activity for "+report.Month.String())
			if report.TotalCount == 0 {
				output.Info(c.out, "No transactions this month")
				return nil
			}
			tw := output.Table(c.out, "KIND", "COUNT", "VOLUME", "AVERAGE")
			for _, s := range report.Kinds() {
				output.Row(tw, string(s.Kind), fmt.Sprint(s.Count), output.Money(s.Volume), output.Money(s.Average))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			output.Muted(c.out, "%d transaction(s), volume %s", report.TotalCount, output.Money(report.TotalVolume))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", now.Year(), "Year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Month (1-12)")
	return cmd
}

func (c *cli) reportInactiveCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "inactive",
		Short: "Accounts without activity for more than N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = c.app.Config.InactiveDays
			}
			if days < 0 {
				return fmt.Errorf("%w: days must not be negative, got %d", services.ErrValidation, days)
			}

			inactive := c.app.Reports.InactiveAccounts(cmd.Context(), days)
			if done, err := c.emit(inactive); done {
				return err
			}
			if len(inactive) == 0 {
				output.Success(c.out, "Every account was active in the last %d day(s)", days)
				return nil
			}

			output.Section(c.out, fmt.Sprintf("Inactive for more than %d day(s)", days))
			tw := output.Table(c.out, "NUMBER", "OWNER", "BALANCE", "LAST ACTIVITY", "DAYS IDLE")
			for _, entry := range inactive {
				last, idle := "never", "-"
				if entry.LastActivity != nil {
					last = output.Date(*entry.LastActivity)
					idle = fmt.Sprint(entry.DaysIdle)
				}
				output.Row(tw, entry.Account.Number, entry.OwnerName, output.Money(entry.Account.Balance), last, idle)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Inactivity threshold in days (defaults to INACTIVE_DAYS)")
	return cmd
}

func (c *cli) reportSuspiciousCmd() *cobra.Command {
	var (
		account   string
		threshold float64
		country   string
		minutes   int64
	)
	cmd := &cobra.Command{
		Use:   "suspicious",
		Short: "Flag high-amount, unusual-location and high-frequency transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			criteria := c.app.Config.Criteria()
			if cmd.Flags().Changed("threshold") {
				criteria.AmountThreshold = threshold
			}
			if cmd.Flags().Changed("country") {
				criteria.UsualCountry = country
			}
			if cmd.Flags().Changed("minutes") {
				criteria.MaxMinutesBetween = minutes
			}

			var flagged []models.Transaction
			if account != "" {
				acc, ok := c.app.Accounts.FindAccountByNumber(ctx, account)
				if !ok {
					return fmt.Errorf("%w: %s", services.ErrAccountNotFound, account)
				}
				flagged = c.app.Transactions.DetectSuspiciousForAccount(ctx, acc.ID, criteria)
			} else {
				flagged = c.app.Reports.SuspiciousTransactions(ctx, criteria)
			}

			if done, err := c.emit(flagged); done {
				return err
			}
			if len(flagged) == 0 {
				output.Success(c.out, "No suspicious transactions")
				return nil
			}
			output.Warning(c.out, "%d suspicious transaction(s)", len(flagged))
			return c.txTable(flagged)
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "Restrict to one account number")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "High amount threshold (defaults to HIGH_AMOUNT_THRESHOLD)")
	cmd.Flags().StringVar(&country, "country", "", "Usual country (defaults to USUAL_COUNTRY)")
	cmd.Flags().Int64Var(&minutes, "minutes", 0, "High frequency window in minutes (defaults to MAX_MINUTES_BETWEEN)")
	return cmd
}
