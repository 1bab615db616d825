package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coinsouq-exchange-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddTransaction records an immutable trade receipt.
func (s *Service) AddTransaction(ctx context.Context, tx models.Transaction) error {
	zap.L().Info("Recording trade receipt",
		zap.String("transaction_id", tx.Id),
		zap.String("user_id", tx.UserId),
		zap.String("type", tx.Type),
		zap.String("asset_id", tx.AssetId),
		zap.String("amount", tx.Amount.String()),
		zap.String("total_cost", tx.TotalCost.String()))

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, queryInsertTransaction,
		tx.Id, tx.UserId, tx.Type, tx.AssetId, tx.AssetSymbol,
		tx.Amount.String(), tx.PriceAtTransaction.String(), tx.TotalCost.String(),
		tx.Status, tx.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to insert trade receipt", zap.String("transaction_id", tx.Id), zap.Error(err))
		return fmt.Errorf("unable to insert transaction: %w", err)
	}
	return nil
}

// GetTransactionsByUser returns a user's trade receipts, most recent first.
func (s *Service) GetTransactionsByUser(ctx context.Context, userId string) ([]models.Transaction, error) {
	zap.L().Debug("Querying trade receipts", zap.String("user_id", userId))

	rows, err := s.db.QueryContext(ctx, queryGetTransactionsByUser, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var amountStr, priceStr, totalCostStr string
		err := rows.Scan(&tx.Id, &tx.UserId, &tx.Type, &tx.AssetId, &tx.AssetSymbol,
			&amountStr, &priceStr, &totalCostStr, &tx.Status, &tx.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan transaction row: %w", err)
		}

		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
		}
		if tx.PriceAtTransaction, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse price '%s': %w", priceStr, err)
		}
		if tx.TotalCost, err = decimal.NewFromString(totalCostStr); err != nil {
			return nil, fmt.Errorf("failed to parse total cost '%s': %w", totalCostStr, err)
		}

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}
