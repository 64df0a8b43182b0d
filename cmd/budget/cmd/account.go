package cmd

import (
	"context"
	"fmt"

	"budget-tracker/internal/ledger"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account for a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")
		name, _ := cmd.Flags().GetString("name")
		balanceStr, _ := cmd.Flags().GetString("balance")
		opening, err := parseAmount(balanceStr)
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			a, err := svc.CreateAccount(ctx, userID, name, opening)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %d (%s) with balance %s\n",
				a.ID, a.Name, formatAmount(a.Balance))
			return nil
		})
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List a user's accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			accounts, err := svc.ListAccounts(ctx, userID)
			if err != nil {
				return err
			}
			for _, a := range accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", a.ID, a.Name, formatAmount(a.Balance))
			}
			return nil
		})
	},
}

var accountUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			a, err := svc.UpdateAccount(ctx, id, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed account %d to %s\n", a.ID, a.Name)
			return nil
		})
	},
}

var accountRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an account and all of its transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			if err := svc.DeleteAccount(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %d\n", id)
			return nil
		})
	},
}

var accountSummaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Show an account with its most recent transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			account, txs, err := svc.AccountSummary(ctx, id, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account %d: %s\n", account.ID, account.Name)
			fmt.Fprintf(out, "Balance: %s\n", formatAmount(account.Balance))
			for _, t := range txs {
				cat := t.Category
				if cat == "" {
					cat = "-"
				}
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n",
					t.ID, t.Timestamp.Format("2006-01-02 15:04"), formatAmount(t.Amount), cat, t.Description)
			}
			return nil
		})
	},
}

var accountVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Check an account's balance against its transaction history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			res, err := svc.VerifyAccount(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Opening balance:  %s\n", formatAmount(res.Account.OpeningBalance))
			fmt.Fprintf(out, "Transaction sum:  %s\n", formatAmount(res.TransactionSum))
			fmt.Fprintf(out, "Cached balance:   %s\n", formatAmount(res.Account.Balance))
			if res.OK {
				fmt.Fprintln(out, "OK: balance matches transaction history")
				return nil
			}
			return fmt.Errorf("account %d has drifted by %s", id, res.Drift.String())
		})
	},
}

func init() {
	accountAddCmd.Flags().Int64("user", 0, "owning user id (required)")
	accountAddCmd.Flags().String("name", "", "account name (required)")
	accountAddCmd.Flags().String("balance", "0", "opening balance")
	_ = accountAddCmd.MarkFlagRequired("user")
	_ = accountAddCmd.MarkFlagRequired("name")

	accountUpdateCmd.Flags().String("name", "", "new account name (required)")
	_ = accountUpdateCmd.MarkFlagRequired("name")

	accountSummaryCmd.Flags().Int("limit", 10, "number of transactions to show")

	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountUpdateCmd)
	accountCmd.AddCommand(accountRmCmd)
	accountCmd.AddCommand(accountSummaryCmd)
	accountCmd.AddCommand(accountVerifyCmd)
}
