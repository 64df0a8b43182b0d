package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"budget-tracker/internal/ledger"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <account-id>",
	Short: "Export an account's transactions as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, err := parseID(args[0])
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")

		return withService(cmd, func(ctx context.Context, svc *ledger.Service) error {
			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := svc.ExportTransactionsCSV(ctx, accountID, w); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported account %d to %s\n", accountID, outPath)
			}
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().String("out", "", "write to this file instead of stdout")
}
