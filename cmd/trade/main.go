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
	"errors"
	"flag"
	"fmt"
	"strings"

	"coinsouq-exchange-go/internal/auth"
	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/ledger"
	"coinsouq-exchange-go/internal/market"
	"coinsouq-exchange-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	sideFlag := flag.String("side", "", "Trade side: BUY or SELL")
	assetFlag := flag.String("asset", "", "Asset id to trade (e.g. bitcoin)")
	amountFlag := flag.String("amount", "", "Asset amount to trade")
	priceFlag := flag.String("price", "", "Override price per unit (default: current quote)")
	flag.Parse()

	side := strings.ToUpper(*sideFlag)
	if side != models.TradeSideBuy && side != models.TradeSideSell {
		zap.L().Fatal("Required flag: --side must be BUY or SELL", zap.String("side", *sideFlag))
	}
	if *assetFlag == "" || *amountFlag == "" {
		zap.L().Fatal("Required flags: --asset and --amount")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		zap.L().Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	assets, err := market.LoadCatalog(cfg.Market.AssetsFile)
	if err != nil {
		zap.L().Fatal("Failed to load asset catalog", zap.Error(err))
	}
	asset, err := market.FindAsset(assets, *assetFlag)
	if err != nil {
		zap.L().Fatal("Unknown asset", zap.String("asset_id", *assetFlag), zap.Error(err))
	}

	price := asset.Price()
	if *priceFlag != "" {
		price, err = decimal.NewFromString(*priceFlag)
		if err != nil {
			zap.L().Fatal("Invalid price", zap.String("price", *priceFlag), zap.Error(err))
		}
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
	updated, err := ledgerService.ExecuteTrade(ctx, user, ledger.TradeParams{
		Side:        side,
		AssetId:     asset.Id,
		AssetSymbol: asset.Symbol,
		Price:       price,
		Amount:      amount,
		TotalCost:   price.Mul(amount),
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			zap.L().Fatal("Insufficient USDT balance", zap.Error(err))
		case errors.Is(err, ledger.ErrInsufficientAssetBalance):
			zap.L().Fatal("Insufficient asset balance", zap.Error(err))
		default:
			zap.L().Fatal("Trade failed", zap.Error(err))
		}
	}

	common.PrintHeader("TRADE EXECUTED", common.DefaultWidth)
	fmt.Printf("%s %s %s @ %s USDT\n", side, amount.String(), asset.Symbol, price.StringFixed(2))
	fmt.Printf("Total: %s USDT\n", price.Mul(amount).StringFixed(2))
	fmt.Printf("Balance: %s USDT\n", updated.BalanceUSDT.StringFixed(2))
	if pos := updated.FindPosition(asset.Id); pos != nil {
		fmt.Printf("Position: %s %s, avg buy price %s USDT\n",
			pos.Amount.String(), asset.Symbol, pos.AverageBuyPrice.StringFixed(2))
	} else {
		fmt.Println("Position closed")
	}
	common.PrintSeparator("=", common.DefaultWidth)
}
