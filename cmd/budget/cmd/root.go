// Package cmd provides the CLI commands for the budget tracker.
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"budget-tracker/internal/config"
	"budget-tracker/internal/ledger"
	"budget-tracker/internal/logger"
	"budget-tracker/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
	debug   bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "budget",
	Short: "Track users, accounts and transactions in a personal ledger",
	Long: `budget is a personal finance ledger. It stores users, their
accounts and the transactions that move money on them in a local
SQLite database, keeping every account balance in step with its
transaction history.

Example:
  budget user add --name Alice
  budget account add --user 1 --name Checking --balance 100
  budget tx add 1 --amount -20 --category Food --desc "Lunch"
  budget report balance 1`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			c.DBPath = dbPath
		}
		if debug {
			c.Debug = true
		}
		cfg = c
		return nil
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath, "path to the database file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

// withService opens the store, runs fn against the ledger service and
// closes the store again.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *ledger.Service) error) error {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := logger.New(level)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return fn(cmd.Context(), ledger.NewService(db, log))
}

// parseID parses a positional entity id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// parseAmount parses a signed decimal amount.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// formatAmount renders an amount with the configured currency label,
// thousands separators and two decimal places.
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s.%s", cfg.Currency, sign, b.String(), fracPart)
}

// stringFlagPtr returns a pointer to the flag value when the flag was
// set, nil otherwise. Optional update fields use this to tell "leave
// unchanged" apart from "set to empty".
func stringFlagPtr(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
