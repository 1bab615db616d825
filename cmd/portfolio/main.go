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

package main

import (
	"context"
	"flag"
	"fmt"

	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"go.uber.org/zap"
)

type portfolioStats struct {
	totalUsers         int
	totalPositions     int
	usersWithPositions int
}

func printPosition(position models.Position, isLast bool) {
	symbol := common.BoxPrefix(isLast)

	fmt.Printf("%s %-15s: %20s (avg buy: %s USDT)\n",
		symbol,
		position.AssetId,
		position.Amount.String(),
		position.AverageBuyPrice.StringFixed(2))
}

func printUserHeader(user models.User) {
	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("│  ID: %s\n", user.Id)
	fmt.Printf("│  Balance: %s USDT\n", user.BalanceUSDT.StringFixed(2))
	fmt.Printf("│  KYC: level %d (%s)\n", user.KYCLevel, user.KYCStatus)
	fmt.Printf("│  Positions: %d\n", len(user.Portfolio))
	common.PrintBoxSeparator(78)
}

func printTransactions(transactions []models.Transaction, limit int) {
	if len(transactions) == 0 {
		return
	}
	if limit > 0 && len(transactions) > limit {
		transactions = transactions[:limit]
	}

	fmt.Println("│  Recent transactions:")
	for i, tx := range transactions {
		isLast := i == len(transactions)-1
		fmt.Printf("%s %s %-4s %s %s @ %s (total %s USDT) [%s]\n",
			common.BoxPrefix(isLast),
			tx.CreatedAt.Format("2006-01-02 15:04"),
			tx.Type,
			tx.Amount.String(),
			tx.AssetSymbol,
			tx.PriceAtTransaction.StringFixed(2),
			tx.TotalCost.StringFixed(2),
			tx.Status)
	}
}

func processUser(ctx context.Context, user models.User, st store.ExchangeStore, showTransactions bool, txLimit int, logger *zap.Logger) int {
	printUserHeader(user)

	for i, position := range user.Portfolio {
		isLast := i == len(user.Portfolio)-1 && !showTransactions
		printPosition(position, isLast)
	}
	if len(user.Portfolio) == 0 && !showTransactions {
		fmt.Println("└  (no positions)")
	}

	if showTransactions {
		transactions, err := st.GetTransactionsByUser(ctx, user.Id)
		if err != nil {
			logger.Error("Failed to read transactions",
				zap.String("user_id", user.Id), zap.Error(err))
		} else {
			printTransactions(transactions, txLimit)
		}
	}

	return len(user.Portfolio)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	transactionsFlag := flag.Bool("transactions", false, "Include recent transactions per user")
	limitFlag := flag.Int("limit", 10, "Max transactions to show per user")
	flag.Parse()

	logger.Info("Starting portfolio query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	st, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	users, err := common.ResolveUsers(ctx, st, *emailFlag, logger)
	if err != nil {
		logger.Fatal("Failed to resolve users", zap.Error(err))
	}

	common.PrintHeader("USER PORTFOLIO REPORT", common.DefaultWidth)

	stats := portfolioStats{}
	for _, user := range users {
		stats.totalUsers++
		positionCount := processUser(ctx, user, st, *transactionsFlag, *limitFlag, logger)
		if positionCount > 0 {
			stats.usersWithPositions++
			stats.totalPositions += positionCount
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d users with positions (%d total positions across %d users queried)",
		stats.usersWithPositions, stats.totalPositions, stats.totalUsers)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Portfolio query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("users_with_positions", stats.usersWithPositions),
		zap.Int("total_positions", stats.totalPositions))
}
