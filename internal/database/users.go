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
	"strings"
	"time"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var balanceStr string
	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PasswordHash,
		&user.KYCLevel, &user.KYCStatus, &balanceStr,
		&user.ReferralCode, &user.Points, &user.StreakDays, &user.LastLoginDate,
		&user.WalletAddressUSDT, &user.WalletAddressBTC, &user.WalletAddressTRX,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	user.BalanceUSDT, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
	}
	return &user, nil
}

func (s *Service) loadPortfolio(ctx context.Context, userId string) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, queryGetPositions, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query positions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var portfolio []models.Position
	for rows.Next() {
		var pos models.Position
		var amountStr, avgPriceStr string
		if err := rows.Scan(&pos.AssetId, &amountStr, &avgPriceStr); err != nil {
			return nil, fmt.Errorf("unable to scan position row: %w", err)
		}
		if pos.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse position amount '%s': %w", amountStr, err)
		}
		if pos.AverageBuyPrice, err = decimal.NewFromString(avgPriceStr); err != nil {
			return nil, fmt.Errorf("failed to parse average buy price '%s': %w", avgPriceStr, err)
		}
		portfolio = append(portfolio, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position rows: %w", err)
	}
	return portfolio, nil
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	zap.L().Debug("Querying users")

	rows, err := s.db.QueryContext(ctx, queryGetUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during user row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	for i := range users {
		if users[i].Portfolio, err = s.loadPortfolio(ctx, users[i].Id); err != nil {
			return nil, err
		}
	}

	zap.L().Debug("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	zap.L().Debug("Querying user by ID", zap.String("user_id", userId))

	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUserById, userId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, userId)
		}
		zap.L().Error("Failed to query user by ID", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by ID: %w", err)
	}

	if user.Portfolio, err = s.loadPortfolio(ctx, user.Id); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	zap.L().Debug("Querying user by email", zap.String("email", email))

	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUserByEmail, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, email)
		}
		zap.L().Error("Failed to query user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by email: %w", err)
	}

	if user.Portfolio, err = s.loadPortfolio(ctx, user.Id); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	zap.L().Info("Creating user", zap.String("id", user.Id), zap.String("email", user.Email))

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, queryInsertUser,
		user.Id, user.Name, user.Email, user.PasswordHash,
		user.KYCLevel, user.KYCStatus, user.BalanceUSDT.String(),
		user.ReferralCode, user.Points, user.StreakDays, user.LastLoginDate,
		user.WalletAddressUSDT, user.WalletAddressBTC, user.WalletAddressTRX,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return nil, fmt.Errorf("%w: %s", store.ErrEmailExists, user.Email)
		}
		zap.L().Error("Failed to insert user", zap.String("email", user.Email), zap.Error(err))
		return nil, fmt.Errorf("unable to insert user: %w", err)
	}

	if err := s.replacePortfolio(ctx, s.db, user.Id, user.Portfolio); err != nil {
		return nil, err
	}

	zap.L().Info("User created successfully", zap.String("id", user.Id), zap.String("email", user.Email))
	return s.GetUserById(ctx, user.Id)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Service) replacePortfolio(ctx context.Context, ex execer, userId string, portfolio []models.Position) error {
	if _, err := ex.ExecContext(ctx, queryDeletePositions, userId); err != nil {
		return fmt.Errorf("unable to clear positions: %w", err)
	}
	for _, pos := range portfolio {
		_, err := ex.ExecContext(ctx, queryInsertPosition,
			uuid.New().String(), userId, pos.AssetId, pos.Amount.String(), pos.AverageBuyPrice.String())
		if err != nil {
			return fmt.Errorf("unable to insert position: %w", err)
		}
	}
	return nil
}

// UpdateUser merges the set fields of update onto the stored record and
// returns the merged user. The write replaces the whole record; there is no
// concurrent partial-field update model.
func (s *Service) UpdateUser(ctx context.Context, userId string, update store.UserUpdate) (*models.User, error) {
	current, err := s.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		current.Name = *update.Name
	}
	if update.PasswordHash != nil {
		current.PasswordHash = *update.PasswordHash
	}
	if update.BalanceUSDT != nil {
		current.BalanceUSDT = *update.BalanceUSDT
	}
	if update.KYCLevel != nil {
		current.KYCLevel = *update.KYCLevel
	}
	if update.KYCStatus != nil {
		current.KYCStatus = *update.KYCStatus
	}
	if update.Points != nil {
		current.Points = *update.Points
	}
	if update.StreakDays != nil {
		current.StreakDays = *update.StreakDays
	}
	if update.LastLoginDate != nil {
		current.LastLoginDate = *update.LastLoginDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queryUpdateUser,
		current.Name, current.PasswordHash, current.BalanceUSDT.String(),
		current.KYCLevel, current.KYCStatus,
		current.Points, current.StreakDays, current.LastLoginDate,
		userId)
	if err != nil {
		zap.L().Error("Failed to update user", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, userId)
	}

	if update.Portfolio != nil {
		if err := s.replacePortfolio(ctx, tx, userId, *update.Portfolio); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Debug("User updated", zap.String("user_id", userId))
	return s.GetUserById(ctx, userId)
}
