// Package seed populates an empty store with demonstration data: an admin
// account, sample KYC-pending users and sample bank-transfer deposit
// requests. Seeding a non-empty store is a no-op.
package seed

import (
	"context"
	"fmt"
	"time"

	"coinsouq-exchange-go/internal/auth"
	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	id       string
	name     string
	email    string
	password string
	kycLevel int
	kycState string
	balance  decimal.Decimal
}

type demoDeposit struct {
	id       string
	userId   string
	userName string
	amount   decimal.Decimal
	status   string
}

// Run seeds demonstration data if, and only if, the corresponding
// collections are empty. Safe to call on every startup.
func Run(ctx context.Context, st store.ExchangeStore) error {
	users, err := st.GetUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed: unable to read users: %w", err)
	}

	if len(users) == 0 {
		if err := seedUsers(ctx, st); err != nil {
			return err
		}
	} else {
		zap.L().Debug("Skipping user seed, store already has users", zap.Int("count", len(users)))
	}

	deposits, err := st.GetDeposits(ctx)
	if err != nil {
		return fmt.Errorf("seed: unable to read deposits: %w", err)
	}

	if len(deposits) == 0 {
		if err := seedDeposits(ctx, st); err != nil {
			return err
		}
	} else {
		zap.L().Debug("Skipping deposit seed, store already has deposits", zap.Int("count", len(deposits)))
	}

	return nil
}

func seedUsers(ctx context.Context, st store.ExchangeStore) error {
	demoUsers := []demoUser{
		{
			id:       "admin",
			name:     "System Admin",
			email:    "admin@coinsouq.example",
			password: "admin-demo-pass",
			kycLevel: 3,
			kycState: models.KYCStatusVerified,
			balance:  decimal.NewFromInt(1_000_000),
		},
		{
			id:       "u_201",
			name:     "Fahad Al-Harbi",
			email:    "fahad@example.com",
			password: "demo-password",
			kycLevel: 1,
			kycState: models.KYCStatusPending,
			balance:  decimal.Zero,
		},
		{
			id:       "u_202",
			name:     "Mona Zaki",
			email:    "mona@example.com",
			password: "demo-password",
			kycLevel: 1,
			kycState: models.KYCStatusPending,
			balance:  decimal.Zero,
		},
	}

	for _, demo := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(demo.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: unable to hash password: %w", err)
		}

		user := models.User{
			Id:                demo.id,
			Name:              demo.name,
			Email:             demo.email,
			PasswordHash:      string(hash),
			KYCLevel:          demo.kycLevel,
			KYCStatus:         demo.kycState,
			BalanceUSDT:       demo.balance,
			ReferralCode:      auth.GenerateReferralCode(),
			WalletAddressUSDT: auth.GenerateAddress(auth.ChainETH),
			WalletAddressBTC:  auth.GenerateAddress(auth.ChainBTC),
			WalletAddressTRX:  auth.GenerateAddress(auth.ChainTRX),
			CreatedAt:         time.Now(),
		}

		if _, err := st.CreateUser(ctx, user); err != nil {
			zap.L().Error("Failed to seed user", zap.String("name", demo.name), zap.Error(err))
		} else {
			zap.L().Info("Demo user created", zap.String("id", demo.id), zap.String("name", demo.name))
		}
	}

	return nil
}

func seedDeposits(ctx context.Context, st store.ExchangeStore) error {
	demoDeposits := []demoDeposit{
		{id: "dep_1", userId: "u_201", userName: "Fahad Al-Harbi", amount: decimal.NewFromInt(5000), status: models.DepositStatusPending},
		{id: "dep_2", userId: "u_202", userName: "Mona Zaki", amount: decimal.NewFromInt(1200), status: models.DepositStatusPending},
		{id: "dep_3", userId: "u_201", userName: "Fahad Al-Harbi", amount: decimal.NewFromInt(10000), status: models.DepositStatusApproved},
	}

	for _, demo := range demoDeposits {
		deposit := models.DepositRequest{
			Id:        demo.id,
			UserId:    demo.userId,
			UserName:  demo.userName,
			Amount:    demo.amount,
			Method:    models.DepositMethodBank,
			Status:    demo.status,
			CreatedAt: time.Now(),
		}

		if err := st.AddDeposit(ctx, deposit); err != nil {
			zap.L().Error("Failed to seed deposit request", zap.String("id", demo.id), zap.Error(err))
		} else {
			zap.L().Info("Demo deposit request created",
				zap.String("id", demo.id),
				zap.String("status", demo.status))
		}
	}

	return nil
}
