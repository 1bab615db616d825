package main

import (
	"context"
	"flag"
	"fmt"

	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/seed"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	seedFlag := flag.Bool("seed", false, "Seed demonstration data if the store is empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Initializing store", zap.String("backend", cfg.Store.Backend))
	st, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	if *seedFlag || cfg.Store.SeedDemoData {
		zap.L().Info("Seeding demonstration data")
		if err := seed.Run(ctx, st); err != nil {
			zap.L().Fatal("Seeding failed", zap.Error(err))
		}
	}

	users, err := st.GetUsers(ctx)
	if err != nil {
		zap.L().Fatal("Failed to read users", zap.Error(err))
	}
	deposits, err := st.GetDeposits(ctx)
	if err != nil {
		zap.L().Fatal("Failed to read deposits", zap.Error(err))
	}

	common.PrintHeader("STORE INITIALIZED", common.DefaultWidth)
	fmt.Printf("Backend:  %s\n", cfg.Store.Backend)
	fmt.Printf("Users:    %d\n", len(users))
	fmt.Printf("Deposits: %d\n", len(deposits))
	common.PrintSeparator("=", common.DefaultWidth)

	zap.L().Info("Initialization complete",
		zap.Int("users", len(users)),
		zap.Int("deposits", len(deposits)))
}
