package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "account_id", "amount", "timestamp", "description", "category"}

// ExportTransactionsCSV writes all transactions of an account to w as
// CSV, newest first, one row per transaction after a header row.
// Timestamps are RFC 3339. The account's opening balance never appears
// in the export, so the column sum equals balance minus opening
// balance.
func (s *Service) ExportTransactionsCSV(ctx context.Context, accountID int64, w io.Writer) error {
	txs, err := s.ListTransactions(ctx, accountID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.AccountID, 10),
			t.Amount.String(),
			t.Timestamp.Format(time.RFC3339),
			t.Description,
			t.Category,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
