package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
)

// XlsxExporter builds the admin activity report as an Excel workbook with one
// sheet of ledger transactions and one of settled commissions.
type XlsxExporter struct {
	transactionRepo persistence.TransactionRepository
	commissionRepo  persistence.CommissionRepository
	logger          coreport.Logger
}

// NewXlsxExporter creates a report exporter
func NewXlsxExporter(
	transactionRepo persistence.TransactionRepository,
	commissionRepo persistence.CommissionRepository,
	logger coreport.Logger,
) *XlsxExporter {
	return &XlsxExporter{
		transactionRepo: transactionRepo,
		commissionRepo:  commissionRepo,
		logger:          logger,
	}
}

// ExportPeriod renders all activity in [from, to) into an XLSX workbook
func (e *XlsxExporter) ExportPeriod(ctx context.Context, from, to time.Time) (*bytes.Buffer, error) {
	transactions, err := e.transactionRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	commissions, err := e.commissionRepo.ListAll(ctx, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			e.logger.Warn("Failed to close report workbook", map[string]any{
				"error": closeErr.Error(),
			})
		}
	}()

	if err := e.writeTransactionsSheet(f, transactions); err != nil {
		return nil, err
	}
	if err := e.writeCommissionsSheet(f, commissions, from, to); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	e.logger.Info("Activity report exported", map[string]any{
		"from":         from,
		"to":           to,
		"transactions": len(transactions),
	})

	return buf, nil
}

func (e *XlsxExporter) writeTransactionsSheet(f *excelize.File, transactions []*entity.Transaction) error {
	const sheet = "Transactions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"ID", "User ID", "Reference", "Type", "Amount (USDT)", "Tokens", "Price", "Status", "Created At", "Processed At"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for row, tx := range transactions {
		processedAt := ""
		if tx.ProcessedAt != nil {
			processedAt = tx.ProcessedAt.Format(time.RFC3339)
		}
		values := []interface{}{
			tx.ID,
			tx.UserID,
			tx.Reference,
			string(tx.Type),
			tx.FormattedAmount(),
			tx.FormattedTokenAmount(),
			entity.FormatAmount(tx.PricePerTokenCents),
			string(tx.Status),
			tx.CreatedAt.Format(time.RFC3339),
			processedAt,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *XlsxExporter) writeCommissionsSheet(f *excelize.File, commissions []*entity.ReferralCommission, from, to time.Time) error {
	const sheet = "Commissions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Referrer ID", "Referred User ID", "Purchase Tx ID", "Amount (USDT)", "Tokens", "Month", "Year", "Paid", "Created At"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	row := 2
	for _, c := range commissions {
		if c.CreatedAt.Before(from) || !c.CreatedAt.Before(to) {
			continue
		}
		values := []interface{}{
			c.ID,
			c.ReferrerID,
			c.ReferredUserID,
			c.PurchaseTransactionID,
			c.FormattedAmount(),
			entity.FormatAmount(c.TokenAmount),
			c.Month,
			c.Year,
			c.IsPaid,
			c.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		row++
	}

	return nil
}
