package store

import (
	"context"
	"errors"

	"coinsouq-exchange-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrDepositNotFound = errors.New("deposit request not found")
	ErrPersistence     = errors.New("store write failed")
)

// UserUpdate is a partial-field merge onto an existing user record.
// Nil fields are left untouched; set fields win wholesale (last write wins
// per field, no deep merge).
type UserUpdate struct {
	Name          *string
	PasswordHash  *string
	BalanceUSDT   *decimal.Decimal
	Portfolio     *[]models.Position
	KYCLevel      *int
	KYCStatus     *string
	Points        *int
	StreakDays    *int
	LastLoginDate *string
}

// ExchangeStore is the contract every backend (SQLite, JSON file, ...) must
// satisfy. It is the single source of truth for users, trade receipts,
// deposit requests, activity logs and the current session pointer; domain
// services receive it by injection and never reach around it.
type ExchangeStore interface {
	// --- Users ---
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, userId string, update UserUpdate) (*models.User, error)

	// --- Trade receipts ---
	AddTransaction(ctx context.Context, tx models.Transaction) error
	GetTransactionsByUser(ctx context.Context, userId string) ([]models.Transaction, error)

	// --- Deposit requests ---
	AddDeposit(ctx context.Context, deposit models.DepositRequest) error
	GetDeposit(ctx context.Context, depositId string) (*models.DepositRequest, error)
	GetDeposits(ctx context.Context) ([]models.DepositRequest, error)
	UpdateDepositStatus(ctx context.Context, depositId, status string) (*models.DepositRequest, error)

	// --- Activity log (append-only, most recent first) ---
	AddActivityLog(ctx context.Context, entry models.ActivityLog) error
	// GetActivityLogs filters by user; an empty userId returns all entries.
	GetActivityLogs(ctx context.Context, userId string) ([]models.ActivityLog, error)

	// --- Session pointer ---
	SetSession(ctx context.Context, userId string) error
	GetSession(ctx context.Context) (string, error) // empty string when no session
	ClearSession(ctx context.Context) error

	// --- Lifecycle ---
	Close()
}
