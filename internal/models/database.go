package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// KYC verification states for a user.
const (
	KYCStatusPending  = "PENDING"
	KYCStatusVerified = "VERIFIED"
	KYCStatusRejected = "REJECTED"
)

// Deposit request states. A request leaves PENDING exactly once.
const (
	DepositStatusPending  = "PENDING"
	DepositStatusApproved = "APPROVED"
	DepositStatusRejected = "REJECTED"
)

// Deposit funding methods. CARD credits instantly and is never stored as a
// request; BANK creates a PENDING request awaiting admin review.
const (
	DepositMethodCard = "CARD"
	DepositMethodBank = "BANK"
)

// Trade sides and trade record states.
const (
	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"

	TradeStatusCompleted = "COMPLETED"
	TradeStatusFailed    = "FAILED"
)

// Position is a user's holding of one asset: quantity plus weighted-average
// cost basis. A position whose amount drops to effectively zero is removed
// from the portfolio rather than kept around.
type Position struct {
	AssetId         string          `json:"asset_id" db:"asset_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	AverageBuyPrice decimal.Decimal `json:"average_buy_price" db:"avg_buy_price"`
}

// User represents an exchange account. BalanceUSDT is the free quote-currency
// balance; staked or otherwise locked funds are out of scope.
type User struct {
	Id            string          `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Email         string          `json:"email" db:"email"`
	PasswordHash  string          `json:"password_hash,omitempty" db:"password_hash"`
	KYCLevel      int             `json:"kyc_level" db:"kyc_level"`
	KYCStatus     string          `json:"kyc_status" db:"kyc_status"`
	BalanceUSDT   decimal.Decimal `json:"balance_usdt" db:"balance_usdt"`
	Portfolio     []Position      `json:"portfolio"`
	ReferralCode  string          `json:"referral_code" db:"referral_code"`
	Points        int             `json:"points" db:"points"`
	StreakDays    int             `json:"streak_days" db:"streak_days"`
	LastLoginDate string          `json:"last_login_date" db:"last_login_date"` // YYYY-MM-DD

	// Cosmetic display addresses generated at registration. Not real keys.
	WalletAddressUSDT string `json:"wallet_address_usdt" db:"wallet_usdt"`
	WalletAddressBTC  string `json:"wallet_address_btc" db:"wallet_btc"`
	WalletAddressTRX  string `json:"wallet_address_trx" db:"wallet_trx"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FindPosition returns the portfolio entry for an asset, or nil if none held.
func (u *User) FindPosition(assetId string) *Position {
	for i := range u.Portfolio {
		if u.Portfolio[i].AssetId == assetId {
			return &u.Portfolio[i]
		}
	}
	return nil
}

// Transaction is an immutable trade receipt, written once per executed trade.
type Transaction struct {
	Id                 string          `json:"id" db:"id"`
	UserId             string          `json:"user_id" db:"user_id"`
	Type               string          `json:"type" db:"type"` // BUY or SELL
	AssetId            string          `json:"asset_id" db:"asset_id"`
	AssetSymbol        string          `json:"asset_symbol" db:"asset_symbol"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	PriceAtTransaction decimal.Decimal `json:"price_at_transaction" db:"price"`
	TotalCost          decimal.Decimal `json:"total_cost" db:"total_cost"`
	Status             string          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

// DepositRequest is a user-submitted, admin-adjudicated funding claim.
// Only BANK deposits are represented here; CARD credits never create one.
type DepositRequest struct {
	Id        string          `json:"id" db:"id"`
	UserId    string          `json:"user_id" db:"user_id"`
	UserName  string          `json:"user_name" db:"user_name"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Method    string          `json:"method" db:"method"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ActivityLog is an append-only record of an account-affecting action.
type ActivityLog struct {
	Id        string    `json:"id" db:"id"`
	UserId    string    `json:"user_id" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	IP        string    `json:"ip" db:"ip"`
	Device    string    `json:"device" db:"device"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
