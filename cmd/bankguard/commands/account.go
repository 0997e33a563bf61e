package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bankguard/cmd/bankguard/output"
	"bankguard/internal/models"
	"bankguard/internal/services"
)

type accountUpdate func(*services.AccountService, context.Context, string, float64) error

func (c *cli) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage checking and savings accounts",
	}
	cmd.AddCommand(
		c.accountOpenCmd(),
		c.accountListCmd(),
		c.accountShowCmd(),
		c.accountSetCmd("set-balance", "Set the balance of an account", "balance", (*services.AccountService).UpdateBalance),
		c.accountSetCmd("set-overdraft", "Set the overdraft limit of a checking account", "overdraft", (*services.AccountService).UpdateOverdraft),
		c.accountSetCmd("set-rate", "Set the interest rate of a savings account", "interest rate", (*services.AccountService).UpdateInterestRate),
		c.accountDeleteCmd(),
		c.accountExtremaCmd(),
	)
	return cmd
}

func (c *cli) accountOpenCmd() *cobra.Command {
	var (
		clientID  string
		balance   float64
		overdraft float64
		rate      float64
	)

	open := &cobra.Command{
		Use:   "open",
		Short: "Open an account for an existing client",
	}

	checking := &cobra.Command{
		Use:     "checking",
		Short:   "Open a checking account",
		Example: `  bankguard account open checking --client <id> --balance 500 --overdraft 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := c.app.Accounts.CreateCheckingAccount(cmd.Context(), balance, clientID, overdraft)
			if err != nil {
				return err
			}
			return c.printOpened(account)
		},
	}
	checking.Flags().Float64Var(&overdraft, "overdraft", 0, "Overdraft limit")

	savings := &cobra.Command{
		Use:     "savings",
		Short:   "Open a savings account",
		Example: `  bankguard account open savings --client <id> --balance 1000 --rate 2.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := c.app.Accounts.CreateSavingsAccount(cmd.Context(), balance, clientID, rate)
			if err != nil {
				return err
			}
			return c.printOpened(account)
		},
	}
	savings.Flags().Float64Var(&rate, "rate", 0, "Interest rate in percent (0-100)")

	for _, sub := range []*cobra.Command{checking, savings} {
		sub.Flags().StringVar(&clientID, "client", "", "Owner client id")
		sub.Flags().Float64Var(&balance, "balance", 0, "Opening balance")
		_ = sub.MarkFlagRequired("client")
	}

	open.AddCommand(checking, savings)
	return open
}

func (c *cli) printOpened(account *models.Account) error {
	if done, err := c.emit(models.NewAccountResponse(*account)); done {
		return err
	}
	output.Success(c.out, "%s account %s opened with balance %s", account.Kind(), account.Number, output.Money(account.Balance))
	return nil
}

func (c *cli) accountListCmd() *cobra.Command {
	var clientID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, optionally for one client",
		RunE: func(cmd *cobra.Command, args []string) error {
			var accounts []models.Account
			if clientID != "" {
				accounts = c.app.Accounts.FindAccountsByClient(cmd.Context(), clientID)
			} else {
				accounts = c.app.Accounts.ListAccounts(cmd.Context())
			}
			if done, err := c.emit(models.NewAccountListResponse(accounts)); done {
				return err
			}
			if len(accounts) == 0 {
				output.Info(c.out, "No accounts found")
				return nil
			}
			return c.accountTable(accounts)
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "Owner client id")
	return cmd
}

func (c *cli) accountTable(accounts []models.Account) error {
	tw := output.Table(c.out, "NUMBER", "KIND", "BALANCE", "TERMS", "CLIENT")
	for _, a := range accounts {
		output.Row(tw, a.Number, string(a.Kind()), output.Money(a.Balance), terms(a), a.ClientID)
	}
	return tw.Flush()
}

func terms(a models.Account) string {
	switch t := a.Terms.(type) {
	case models.CheckingTerms:
		return "overdraft " + output.Money(t.Overdraft)
	case models.SavingsTerms:
		return "rate " + output.Percent(t.InterestRate)
	default:
		return ""
	}
}

func (c *cli) accountShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Show an account with its owner and activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			account, ok := c.app.Accounts.FindAccountByNumber(ctx, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", services.ErrAccountNotFound, args[0])
			}
			report, err := c.app.Accounts.AccountReport(ctx, account.ID)
			if err != nil {
				return err
			}
			if done, err := c.emit(models.NewAccountResponse(report.Account)); done {
				return err
			}

			output.Section(c.out, "Account "+report.Account.Number)
			fmt.Fprintf(c.out, "Kind:          %s\n", report.Account.Kind())
			fmt.Fprintf(c.out, "Balance:       %s\n", output.Money(report.Account.Balance))
			fmt.Fprintf(c.out, "Terms:         %s\n", terms(report.Account))
			if report.Owner != nil {
				fmt.Fprintf(c.out, "Owner:         %s <%s>\n", report.Owner.Name, report.Owner.Email)
			}
			fmt.Fprintf(c.out, "Transactions:  %d\n", report.TransactionCount)
			fmt.Fprintf(c.out, "Volume:        %s\n", output.Money(c.app.Transactions.TotalByAccount(ctx, account.ID)))
			if avg, ok := c.app.Transactions.AverageByAccount(ctx, account.ID); ok {
				fmt.Fprintf(c.out, "Average:       %s\n", output.Money(avg))
			}
			return nil
		},
	}
}

func (c *cli) accountSetCmd(use, short, field string, update accountUpdate) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <number> <value>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(field, args[1])
			if err != nil {
				return err
			}
			if err := update(c.app.Accounts, cmd.Context(), args[0], value); err != nil {
				return err
			}
			output.Success(c.out, "%s of %s set to %s", field, args[0], args[1])
			return nil
		},
	}
}

func (c *cli) accountDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete an account without transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Accounts.DeleteAccount(cmd.Context(), args[0]); err != nil {
				return err
			}
			output.Success(c.out, "Account %s deleted", args[0])
			return nil
		},
	}
}

func (c *cli) accountExtremaCmd() *cobra.Command {
	var clientID string
	cmd := &cobra.Command{
		Use:   "extrema",
		Short: "Show the accounts with the highest and lowest balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var maxAcc, minAcc *models.Account
			if clientID != "" {
				maxAcc, _ = c.app.Accounts.MaxBalanceAccountByClient(ctx, clientID)
				minAcc, _ = c.app.Accounts.MinBalanceAccountByClient(ctx, clientID)
			} else {
				maxAcc, _ = c.app.Accounts.MaxBalanceAccount(ctx)
				minAcc, _ = c.app.Accounts.MinBalanceAccount(ctx)
			}
			if maxAcc == nil {
				output.Info(c.out, "No accounts found")
				return nil
			}
			return c.accountTable([]models.Account{*maxAcc, *minAcc})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "Restrict to one client")
	return cmd
}
