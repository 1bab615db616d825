package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"coinsouq-exchange-go/internal/auth"
	"coinsouq-exchange-go/internal/common"
	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Email to log in with")
	passwordFlag := flag.String("password", "", "Password")
	logoutFlag := flag.Bool("logout", false, "Clear the current session")
	whoamiFlag := flag.Bool("whoami", false, "Show the current session user")
	flag.Parse()

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

	switch {
	case *logoutFlag:
		if err := authService.Logout(ctx); err != nil {
			zap.L().Fatal("Failed to log out", zap.Error(err))
		}
		fmt.Println("Logged out.")

	case *whoamiFlag:
		user, err := authService.CurrentUser(ctx)
		if err != nil {
			zap.L().Fatal("Failed to resolve session", zap.Error(err))
		}
		if user == nil {
			fmt.Println("No active session.")
			return
		}
		fmt.Printf("Logged in as %s <%s> (KYC level %d, streak %d days)\n",
			user.Name, user.Email, user.KYCLevel, user.StreakDays)

	default:
		if *emailFlag == "" || *passwordFlag == "" {
			zap.L().Fatal("Required flags: --email and --password (or --logout / --whoami)")
		}

		user, err := authService.Login(ctx, *emailFlag, *passwordFlag)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				zap.L().Fatal("User not found", zap.String("email", *emailFlag))
			}
			if errors.Is(err, auth.ErrInvalidCredential) {
				zap.L().Fatal("Invalid credentials")
			}
			zap.L().Fatal("Login failed", zap.Error(err))
		}

		fmt.Printf("Welcome back, %s. Balance: %s USDT, login streak: %d days.\n",
			user.Name, user.BalanceUSDT.StringFixed(2), user.StreakDays)
	}
}
