/**
 * Copyright 2024-present Coinbase Global, Inc.
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
	"strings"

	"coinsouq-exchange-go/internal/auth"
	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/deposits"
	"coinsouq-exchange-go/internal/ledger"
	"coinsouq-exchange-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	amountFlag := flag.String("amount", "", "Deposit amount in USDT")
	methodFlag := flag.String("method", models.DepositMethodCard, "Deposit method: CARD or BANK")
	flag.Parse()

	if *amountFlag == "" {
		zap.L().Fatal("Required flag: --amount")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		zap.L().Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	method := strings.ToUpper(*methodFlag)
	if method != models.DepositMethodCard && method != models.DepositMethodBank {
		zap.L().Fatal("Invalid method: must be CARD or BANK", zap.String("method", *methodFlag))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	st, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	authService := auth.NewService(st)
	user, err := authService.CurrentUser(ctx)
	if err != nil {
		zap.L().Fatal("Failed to resolve session", zap.Error(err))
	}
	if user == nil {
		zap.L().Fatal("No active session - log in first")
	}

	ledgerService := ledger.NewService(st)

	common.PrintHeader("DEPOSIT", common.DefaultWidth)

	switch method {
	case models.DepositMethodCard:
		updated, err := ledgerService.CreditDeposit(ctx, user.Id, amount, method)
		if err != nil {
			zap.L().Fatal("Failed to credit deposit", zap.Error(err))
		}
		fmt.Printf("Card deposit of %s USDT credited instantly\n", amount.StringFixed(2))
		fmt.Printf("New balance: %s USDT\n", updated.BalanceUSDT.StringFixed(2))

	case models.DepositMethodBank:
		workflow := deposits.NewWorkflow(st, ledgerService)
		request, err := workflow.Submit(ctx, user.Id, user.Name, amount)
		if err != nil {
			zap.L().Fatal("Failed to submit deposit request", zap.Error(err))
		}
		fmt.Printf("Bank deposit of %s USDT submitted for review\n", amount.StringFixed(2))
		fmt.Printf("Request ID: %s\n", request.Id)
		fmt.Printf("Status: %s\n", request.Status)
	}

	common.PrintSeparator("=", common.DefaultWidth)
}
