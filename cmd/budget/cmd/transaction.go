package cmd

import (
	"context"
	"fmt"
	"time"

	"budget-tracker/internal/ledger"

	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Manage transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add <account-id>",
	Short: "Record a transaction against an account",
	Long: `Record a transaction against an account. A positive amount
credits the account, a negative amount debits it. The account balance
is adjusted in the same step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, err := parseID(args[0])
		if err != nil {
			return err
		}
		amountStr, _ := cmd.Flags().GetString("amount")
		amount, err := parseAmount(amountStr)
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("desc")
		category, _ := cmd.Flags().GetString("category")

		var timestamp time.Time
		if when, _ := cmd.Flags().GetString("time"); when != "" {
			timestamp, err = time.Parse(time.RFC3339, when)
			if err != nil {
				return fmt.Errorf("invalid time %q (want RFC 3339)", when)
			}
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			t, err := svc.AddTransaction(ctx, accountID, amount, description, category, timestamp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transaction %d: %s\n", t.ID, formatAmount(t.Amount))
			return nil
		})
	},
}

var txListCmd = &cobra.Command{
	Use:   "list <account-id>",
	Short: "List an account's transactions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			txs, err := svc.ListTransactions(ctx, accountID)
			if err != nil {
				return err
			}
			for _, t := range txs {
				cat := t.Category
				if cat == "" {
					cat = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n",
					t.ID, t.Timestamp.Format("2006-01-02 15:04"), formatAmount(t.Amount), cat, t.Description)
			}
			return nil
		})
	},
}

var txUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a transaction",
	Long: `Update a transaction's amount, description or category, or move it
to another account with --account. The balances of every affected
account are adjusted in the same step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		upd := ledger.TransactionUpdate{
			Description: stringFlagPtr(cmd, "desc"),
			Category:    stringFlagPtr(cmd, "category"),
		}
		if cmd.Flags().Changed("amount") {
			amountStr, _ := cmd.Flags().GetString("amount")
			amount, err := parseAmount(amountStr)
			if err != nil {
				return err
			}
			upd.Amount = &amount
		}
		if cmd.Flags().Changed("account") {
			accountID, _ := cmd.Flags().GetInt64("account")
			upd.AccountID = &accountID
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			t, err := svc.UpdateTransaction(ctx, id, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %d: %s\n", t.ID, formatAmount(t.Amount))
			return nil
		})
	},
}

var txRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction and reverse its balance effect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			if err := svc.DeleteTransaction(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		})
	},
}

func init() {
	txAddCmd.Flags().String("amount", "", "signed amount (required)")
	txAddCmd.Flags().String("desc", "", "description")
	txAddCmd.Flags().String("category", "", "category label")
	txAddCmd.Flags().String("time", "", "timestamp (RFC 3339, defaults to now)")
	_ = txAddCmd.MarkFlagRequired("amount")

	txUpdateCmd.Flags().String("amount", "", "new amount")
	txUpdateCmd.Flags().String("desc", "", "new description")
	txUpdateCmd.Flags().String("category", "", "new category label")
	txUpdateCmd.Flags().Int64("account", 0, "move to this account id")

	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txUpdateCmd)
	txCmd.AddCommand(txRmCmd)
}
