// Package auth resolves the current session and handles login, registration
// and logout. Passwords are stored as bcrypt hashes; comparison runs in
// constant time via bcrypt itself.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrWeakPassword      = errors.New("password must be at least 8 characters")
)

// WelcomePoints is the reward-points bonus granted at registration.
const WelcomePoints = 50

type Service struct {
	store store.ExchangeStore
}

func NewService(st store.ExchangeStore) *Service {
	return &Service{store: st}
}

// RegisterParams carries the fields a new account needs.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	KYCLevel int
}

// Register creates a new user with zero balance, an empty portfolio,
// generated display addresses and a welcome points bonus, then makes it the
// current session.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if params.Name == "" || params.Email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if len(params.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if params.KYCLevel < 0 || params.KYCLevel > 3 {
		return nil, fmt.Errorf("kyc level must be between 0 and 3, got %d", params.KYCLevel)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("unable to hash password: %w", err)
	}

	kycStatus := models.KYCStatusPending
	if params.KYCLevel >= 2 {
		kycStatus = models.KYCStatusVerified
	}

	user := models.User{
		Id:                uuid.New().String(),
		Name:              params.Name,
		Email:             params.Email,
		PasswordHash:      string(hash),
		KYCLevel:          params.KYCLevel,
		KYCStatus:         kycStatus,
		BalanceUSDT:       decimal.Zero,
		Portfolio:         nil,
		ReferralCode:      GenerateReferralCode(),
		Points:            WelcomePoints,
		StreakDays:        1,
		LastLoginDate:     time.Now().Format("2006-01-02"),
		WalletAddressUSDT: GenerateAddress(ChainETH),
		WalletAddressBTC:  GenerateAddress(ChainBTC),
		WalletAddressTRX:  GenerateAddress(ChainTRX),
		CreatedAt:         time.Now(),
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetSession(ctx, created.Id); err != nil {
		return nil, fmt.Errorf("user created but session not set: %w", err)
	}

	zap.L().Info("User registered",
		zap.String("user_id", created.Id),
		zap.String("email", created.Email),
		zap.Int("kyc_level", created.KYCLevel))

	return created, nil
}

// Login verifies the credential, advances the login streak, records an
// activity entry and points the session at the user.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			zap.L().Warn("Login failed", zap.String("email", email))
			return nil, ErrInvalidCredential
		}
	}

	streak, today := nextStreak(user.StreakDays, user.LastLoginDate, time.Now())
	if streak != user.StreakDays || today != user.LastLoginDate {
		if user, err = s.store.UpdateUser(ctx, user.Id, store.UserUpdate{
			StreakDays:    &streak,
			LastLoginDate: &today,
		}); err != nil {
			return nil, fmt.Errorf("failed to update login streak: %w", err)
		}
	}

	if err := s.store.SetSession(ctx, user.Id); err != nil {
		return nil, fmt.Errorf("unable to set session: %w", err)
	}

	entry := models.ActivityLog{
		Id:        uuid.New().String(),
		UserId:    user.Id,
		Action:    "Login Successful",
		IP:        "127.0.0.1",
		Device:    deviceInfo(),
		CreatedAt: time.Now(),
	}
	if err := s.store.AddActivityLog(ctx, entry); err != nil {
		zap.L().Warn("Login recorded but activity log write failed",
			zap.String("user_id", user.Id), zap.Error(err))
	}

	zap.L().Info("Login successful",
		zap.String("user_id", user.Id),
		zap.Int("streak_days", user.StreakDays))

	return user, nil
}

// Logout clears the current-session pointer; the user record stays.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.ClearSession(ctx)
}

// CurrentUser resolves the session pointer to a live user record.
// Returns (nil, nil) when there is no session.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	userId, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if userId == "" {
		return nil, nil
	}

	user, err := s.store.GetUserById(ctx, userId)
	if err != nil {
		// A dangling pointer behaves like no session.
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// nextStreak computes the login streak: same day keeps it, the immediately
// following day bumps it, anything else resets to 1.
func nextStreak(current int, lastLoginDate string, now time.Time) (int, string) {
	today := now.Format("2006-01-02")
	if lastLoginDate == today {
		if current < 1 {
			return 1, today
		}
		return current, today
	}

	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if lastLoginDate == yesterday {
		return current + 1, today
	}
	return 1, today
}

func deviceInfo() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("CLI / %s (%s)", runtime.GOOS, host)
}
