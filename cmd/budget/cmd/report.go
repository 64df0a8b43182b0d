package cmd

import (
	"context"
	"fmt"
	"sort"

	"budget-tracker/internal/ledger"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate reports",
}

var reportBalanceCmd = &cobra.Command{
	Use:   "balance <user-id>",
	Short: "Total balance across a user's accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			total, err := svc.UserTotalBalance(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total balance for user %d: %s\n", userID, formatAmount(total))
			return nil
		})
	},
}

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories <account-id>",
	Short: "Per-category totals for an account's transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			totals, err := svc.SpendingByCategory(ctx, accountID)
			if err != nil {
				return err
			}

			categories := make([]string, 0, len(totals))
			for cat := range totals {
				categories = append(categories, cat)
			}
			sort.Strings(categories)

			for _, cat := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cat, formatAmount(totals[cat]))
			}
			return nil
		})
	},
}

func init() {
	reportCmd.AddCommand(reportBalanceCmd)
	reportCmd.AddCommand(reportCategoriesCmd)
}
