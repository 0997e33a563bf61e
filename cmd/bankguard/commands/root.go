package commands

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bankguard/cmd/bankguard/output"
	"bankguard/internal/app"
	"bankguard/internal/config"
	"bankguard/internal/numbering"
	"bankguard/internal/validation"
)

// cli holds the global flags and the application opened for the running
// command.
type cli struct {
	storage    string
	dbURL      string
	redisAddr  string
	verbose    bool
	jsonOutput bool

	out io.Writer
	app *app.App
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		output.Error(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	c := &cli{out: out}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	return root.Execute()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bankguard",
		Short: "BankGuard - ledger administration for clients, accounts and transactions",
		Long: fmt.Sprintf(`BankGuard manages a small banking ledger from the command line.

Features:
  - Clients with checking and savings accounts
  - Account numbers allocated as %s, %s, ... up to %s
  - Transaction posting, filtering and grouping
  - Reports: top clients, monthly activity, inactive accounts
  - Suspicious activity detection (high amount, unusual location, high frequency)

Configuration is read from the environment (and an optional .env file); the
global flags below override it.`,
			numbering.Format(numbering.First), numbering.Format(numbering.First+1), numbering.Format(numbering.Max)),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.storage, "storage", "", "Storage backend: postgres or memory (overrides STORAGE)")
	root.PersistentFlags().StringVar(&c.dbURL, "db", "", "Database connection URL (overrides DB_URL)")
	root.PersistentFlags().StringVar(&c.redisAddr, "redis", "", "Redis address for account numbering (overrides REDIS_ADDR)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Print service logs")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(c.clientCmd(), c.accountCmd(), c.transactionCmd(), c.reportCmd())
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	if !c.verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.storage != "" {
		if c.storage != config.StoragePostgres && c.storage != config.StorageMemory {
			return fmt.Errorf("--storage must be %q or %q, got %q", config.StoragePostgres, config.StorageMemory, c.storage)
		}
		cfg.Storage = c.storage
	}
	if c.dbURL != "" {
		cfg.DBURL = c.dbURL
	}
	if c.redisAddr != "" {
		cfg.RedisAddr = c.redisAddr
	}

	c.app, err = app.New(cmd.Context(), cfg)
	return err
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
	}
}

// emit writes v as JSON when --json is set and reports whether it did.
func (c *cli) emit(v interface{}) (bool, error) {
	if !c.jsonOutput {
		return false, nil
	}
	return true, output.JSON(c.out, v)
}

func parseAmount(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validation.IsFinite(v) {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}

// parseTime accepts RFC 3339 or a local "2006-01-02 15:04". Blank means now.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, use RFC 3339 or YYYY-MM-DD HH:MM", raw)
	}
	return t, nil
}
