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
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/market"

	"go.uber.org/zap"
)

func printQuotes(assets []market.Asset, sim *market.Simulator) {
	quotes := sim.Quotes()
	fmt.Printf("\n%-12s %-10s %20s\n", "ASSET", "SYMBOL", "PRICE (USDT)")
	common.PrintSeparator("-", 44)
	for _, asset := range assets {
		fmt.Printf("%-12s %-10s %20s\n", asset.Id, asset.Symbol, quotes[asset.Id].StringFixed(2))
	}
}

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	watchFlag := flag.Bool("watch", false, "Keep refreshing quotes until interrupted")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	assets, err := market.LoadCatalog(cfg.Market.AssetsFile)
	if err != nil {
		zap.L().Fatal("Failed to load asset catalog", zap.Error(err))
	}

	sim := market.NewSimulator(assets, time.Now().UnixNano())

	common.PrintHeader("MARKET QUOTES", common.DefaultWidth)
	printQuotes(assets, sim)

	if !*watchFlag {
		common.PrintSeparator("=", common.DefaultWidth)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := market.NewRefresher(sim, cfg.Market.RefreshInterval, func() {
		printQuotes(assets, sim)
	})
	go refresher.Run(ctx)

	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()
	common.PrintSeparator("=", common.DefaultWidth)
}
