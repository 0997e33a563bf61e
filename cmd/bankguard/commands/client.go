package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bankguard/cmd/bankguard/output"
	"bankguard/internal/models"
)

func (c *cli) clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(
		c.clientCreateCmd(),
		c.clientListCmd(),
		c.clientShowCmd(),
		c.clientUpdateCmd(),
		c.clientDeleteCmd(),
	)
	return cmd
}

func (c *cli) clientCreateCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new client",
		Example: `  bankguard client create --name "Alice Martin" --email alice@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.app.Clients.CreateClient(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			if done, err := c.emit(client); done {
				return err
			}
			output.Success(c.out, "Client %s created with id %s", client.Name, client.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Client name")
	cmd.Flags().StringVar(&email, "email", "", "Client email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) clientListCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients, optionally by name fragment",
		RunE: func(cmd *cobra.Command, args []string) error {
			var clients []models.Client
			if name != "" {
				clients = c.app.Clients.FindClientsByName(cmd.Context(), name)
			} else {
				clients = c.app.Clients.ListClients(cmd.Context())
			}
			if done, err := c.emit(clients); done {
				return err
			}
			if len(clients) == 0 {
				output.Info(c.out, "No clients found")
				return nil
			}

			tw := output.Table(c.out, "ID", "NAME", "EMAIL")
			for _, cl := range clients {
				output.Row(tw, cl.ID, cl.Name, cl.Email)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Case-insensitive name fragment")
	return cmd
}

func (c *cli) clientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <client-id>",
		Short: "Show a client with account aggregates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.Clients.ClientReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if done, err := c.emit(report); done {
				return err
			}

			output.Section(c.out, "Client "+report.Client.Name)
			fmt.Fprintf(c.out, "ID:             %s\n", report.Client.ID)
			fmt.Fprintf(c.out, "Email:          %s\n", report.Client.Email)
			fmt.Fprintf(c.out, "Accounts:       %d\n", report.AccountCount)
			fmt.Fprintf(c.out, "Total balance:  %s\n", output.Money(report.TotalBalance))
			if report.MaxAccount != nil {
				fmt.Fprintf(c.out, "Largest:        %s (%s)\n", report.MaxAccount.Number, output.Money(report.MaxAccount.Balance))
			}
			if report.MinAccount != nil {
				fmt.Fprintf(c.out, "Smallest:       %s (%s)\n", report.MinAccount.Number, output.Money(report.MinAccount.Balance))
			}
			return nil
		},
	}
}

func (c *cli) clientUpdateCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "update <client-id>",
		Short: "Replace a client's name and email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Clients.UpdateClient(cmd.Context(), args[0], name, email); err != nil {
				return err
			}
			output.Success(c.out, "Client %s updated", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) clientDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <client-id>",
		Short: "Delete a client without accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Clients.DeleteClient(cmd.Context(), args[0]); err != nil {
				return err
			}
			output.Success(c.out, "Client %s deleted", args[0])
			return nil
		},
	}
}
