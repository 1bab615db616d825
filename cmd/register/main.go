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
	"errors"
	"flag"
	"fmt"
	"regexp"

	"coinsouq-exchange-go/internal/auth"
	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/store"

	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	return nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	nameFlag := flag.String("name", "", "User's full name (required)")
	emailFlag := flag.String("email", "", "User's email address (required)")
	passwordFlag := flag.String("password", "", "Password, minimum 8 characters (required)")
	kycLevelFlag := flag.Int("kyc-level", 0, "Requested KYC tier 0-3")
	flag.Parse()

	if *nameFlag == "" || *emailFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Required flags: --name, --email and --password")
	}

	if err := validateName(*nameFlag); err != nil {
		zap.L().Fatal("Invalid name", zap.Error(err))
	}
	if err := validateEmail(*emailFlag); err != nil {
		zap.L().Fatal("Invalid email", zap.Error(err))
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

	zap.L().Info("Registering user",
		zap.String("name", *nameFlag),
		zap.String("email", *emailFlag))

	user, err := authService.Register(ctx, auth.RegisterParams{
		Name:     *nameFlag,
		Email:    *emailFlag,
		Password: *passwordFlag,
		KYCLevel: *kycLevelFlag,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			zap.L().Fatal("A user with this email already exists", zap.String("email", *emailFlag))
		}
		zap.L().Fatal("Failed to register user", zap.Error(err))
	}

	common.PrintHeader("USER REGISTERED", common.DefaultWidth)
	fmt.Printf("ID:             %s\n", user.Id)
	fmt.Printf("Name:           %s\n", user.Name)
	fmt.Printf("Email:          %s\n", user.Email)
	fmt.Printf("KYC:            level %d (%s)\n", user.KYCLevel, user.KYCStatus)
	fmt.Printf("Referral code:  %s\n", user.ReferralCode)
	fmt.Printf("Reward points:  %d\n", user.Points)
	fmt.Println()
	fmt.Println("Deposit display addresses:")
	fmt.Printf("  USDT (ERC-20): %s\n", user.WalletAddressUSDT)
	fmt.Printf("  BTC:           %s\n", user.WalletAddressBTC)
	fmt.Printf("  TRX:           %s\n", user.WalletAddressTRX)
	common.PrintSeparator("=", common.DefaultWidth)

	zap.L().Info("User registered and session started", zap.String("user_id", user.Id))
}
