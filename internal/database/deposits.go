/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func scanDeposit(row rowScanner) (*models.DepositRequest, error) {
	var dep models.DepositRequest
	var amountStr string
	err := row.Scan(&dep.Id, &dep.UserId, &dep.UserName, &amountStr, &dep.Method, &dep.Status, &dep.CreatedAt)
	if err != nil {
		return nil, err
	}

	dep.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deposit amount '%s': %w", amountStr, err)
	}
	return &dep, nil
}

func (s *Service) AddDeposit(ctx context.Context, deposit models.DepositRequest) error {
	zap.L().Info("Storing deposit request",
		zap.String("deposit_id", deposit.Id),
		zap.String("user_id", deposit.UserId),
		zap.String("amount", deposit.Amount.String()),
		zap.String("method", deposit.Method))

	if deposit.CreatedAt.IsZero() {
		deposit.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, queryInsertDeposit,
		deposit.Id, deposit.UserId, deposit.UserName,
		deposit.Amount.String(), deposit.Method, deposit.Status, deposit.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to insert deposit request", zap.String("deposit_id", deposit.Id), zap.Error(err))
		return fmt.Errorf("unable to insert deposit request: %w", err)
	}
	return nil
}

func (s *Service) GetDeposit(ctx context.Context, depositId string) (*models.DepositRequest, error) {
	zap.L().Debug("Querying deposit request", zap.String("deposit_id", depositId))

	dep, err := scanDeposit(s.db.QueryRowContext(ctx, queryGetDeposit, depositId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrDepositNotFound, depositId)
		}
		return nil, fmt.Errorf("unable to query deposit request: %w", err)
	}
	return dep, nil
}

func (s *Service) GetDeposits(ctx context.Context) ([]models.DepositRequest, error) {
	zap.L().Debug("Querying deposit requests")

	rows, err := s.db.QueryContext(ctx, queryGetDeposits)
	if err != nil {
		return nil, fmt.Errorf("unable to query deposit requests: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var deposits []models.DepositRequest
	for rows.Next() {
		dep, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan deposit row: %w", err)
		}
		deposits = append(deposits, *dep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposit rows: %w", err)
	}
	return deposits, nil
}

// UpdateDepositStatus sets the request's status and returns the updated
// record. Terminal-state enforcement lives in the deposit workflow, not here.
func (s *Service) UpdateDepositStatus(ctx context.Context, depositId, status string) (*models.DepositRequest, error) {
	zap.L().Info("Updating deposit status",
		zap.String("deposit_id", depositId),
		zap.String("status", status))

	result, err := s.db.ExecContext(ctx, queryUpdateDepositStatus, status, depositId)
	if err != nil {
		zap.L().Error("Failed to update deposit status", zap.String("deposit_id", depositId), zap.Error(err))
		return nil, fmt.Errorf("unable to update deposit status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrDepositNotFound, depositId)
	}

	return s.GetDeposit(ctx, depositId)
}
