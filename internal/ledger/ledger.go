// Package ledger owns per-user balance and portfolio consistency under trade
// execution and external credits. It never touches session state.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sentinel errors for ledger operations
var (
	ErrInsufficientFunds        = errors.New("insufficient USDT balance")
	ErrInsufficientAssetBalance = errors.New("insufficient asset balance")
	ErrInvalidTradeParams       = errors.New("invalid trade parameters")
)

// PositionEpsilon is the "effectively zero" threshold: a position whose
// amount falls to or below it is removed rather than kept as residue.
var PositionEpsilon = decimal.New(1, -7) // 1e-7

// TradeParams describes one spot trade. TotalCost is computed by the caller
// (price x amount at prevailing or limit price).
type TradeParams struct {
	Side        string // models.TradeSideBuy or models.TradeSideSell
	AssetId     string
	AssetSymbol string
	Price       decimal.Decimal
	Amount      decimal.Decimal
	TotalCost   decimal.Decimal
}

type Service struct {
	store store.ExchangeStore
}

func NewService(st store.ExchangeStore) *Service {
	return &Service{store: st}
}

// ExecuteTrade applies a BUY or SELL to the user's balance and portfolio,
// persists the updated record and writes a COMPLETED trade receipt. Nothing
// is applied partially: a failed store write leaves no receipt behind.
func (s *Service) ExecuteTrade(ctx context.Context, user *models.User, params TradeParams) (*models.User, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) || params.TotalCost.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount and total cost must be positive", ErrInvalidTradeParams)
	}
	if params.Side != models.TradeSideBuy && params.Side != models.TradeSideSell {
		return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidTradeParams, params.Side)
	}

	zap.L().Info("Executing trade",
		zap.String("user_id", user.Id),
		zap.String("side", params.Side),
		zap.String("asset_id", params.AssetId),
		zap.String("amount", params.Amount.String()),
		zap.String("total_cost", params.TotalCost.String()))

	newBalance := user.BalanceUSDT
	newPortfolio := append([]models.Position(nil), user.Portfolio...)
	existing := findPosition(newPortfolio, params.AssetId)

	switch params.Side {
	case models.TradeSideBuy:
		if user.BalanceUSDT.LessThan(params.TotalCost) {
			return nil, fmt.Errorf("%w: have %s, need %s",
				ErrInsufficientFunds, user.BalanceUSDT.String(), params.TotalCost.String())
		}
		newBalance = newBalance.Sub(params.TotalCost)

		if existing != nil {
			// Weighted-average cost basis:
			// newAvg = (oldAmount*oldAvg + totalCost) / (oldAmount + amount)
			oldCost := existing.Amount.Mul(existing.AverageBuyPrice)
			newAmount := existing.Amount.Add(params.Amount)
			existing.AverageBuyPrice = oldCost.Add(params.TotalCost).Div(newAmount)
			existing.Amount = newAmount
		} else {
			newPortfolio = append(newPortfolio, models.Position{
				AssetId:         params.AssetId,
				Amount:          params.Amount,
				AverageBuyPrice: params.TotalCost.Div(params.Amount),
			})
		}

	case models.TradeSideSell:
		if existing == nil || existing.Amount.LessThan(params.Amount) {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientAssetBalance, params.AssetSymbol)
		}
		newBalance = newBalance.Add(params.TotalCost)
		existing.Amount = existing.Amount.Sub(params.Amount)

		// The average price is not preserved or reset; the position ceases
		// to exist once effectively empty.
		if existing.Amount.LessThanOrEqual(PositionEpsilon) {
			newPortfolio = removePosition(newPortfolio, params.AssetId)
		}
	}

	updated, err := s.store.UpdateUser(ctx, user.Id, store.UserUpdate{
		BalanceUSDT: &newBalance,
		Portfolio:   &newPortfolio,
	})
	if err != nil {
		return nil, fmt.Errorf("trade not applied: %w", err)
	}

	receipt := models.Transaction{
		Id:                 uuid.New().String(),
		UserId:             user.Id,
		Type:               params.Side,
		AssetId:            params.AssetId,
		AssetSymbol:        params.AssetSymbol,
		Amount:             params.Amount,
		PriceAtTransaction: params.Price,
		TotalCost:          params.TotalCost,
		Status:             models.TradeStatusCompleted,
		CreatedAt:          time.Now(),
	}
	if err := s.store.AddTransaction(ctx, receipt); err != nil {
		return nil, fmt.Errorf("trade applied but receipt write failed: %w", err)
	}

	zap.L().Info("Trade executed successfully",
		zap.String("user_id", user.Id),
		zap.String("side", params.Side),
		zap.String("asset_id", params.AssetId),
		zap.String("old_balance", user.BalanceUSDT.String()),
		zap.String("new_balance", updated.BalanceUSDT.String()))

	return updated, nil
}

// CreditDeposit adds funds to a user's free balance and appends an activity
// entry describing the credit. It is called directly for CARD deposits and
// by the deposit workflow once a BANK request is approved; the caller must
// not invoke it twice for one approved request.
func (s *Service) CreditDeposit(ctx context.Context, userId string, amount decimal.Decimal, method string) (*models.User, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: deposit amount must be positive", ErrInvalidTradeParams)
	}

	user, err := s.store.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	newBalance := user.BalanceUSDT.Add(amount)
	updated, err := s.store.UpdateUser(ctx, userId, store.UserUpdate{
		BalanceUSDT: &newBalance,
	})
	if err != nil {
		return nil, fmt.Errorf("deposit not applied: %w", err)
	}

	entry := models.ActivityLog{
		Id:        uuid.New().String(),
		UserId:    userId,
		Action:    fmt.Sprintf("Deposit %s %s USDT", method, amount.String()),
		IP:        "127.0.0.1",
		Device:    "System",
		CreatedAt: time.Now(),
	}
	if err := s.store.AddActivityLog(ctx, entry); err != nil {
		zap.L().Warn("Deposit credited but activity log write failed",
			zap.String("user_id", userId), zap.Error(err))
	}

	zap.L().Info("Deposit credited",
		zap.String("user_id", userId),
		zap.String("method", method),
		zap.String("amount", amount.String()),
		zap.String("new_balance", updated.BalanceUSDT.String()))

	return updated, nil
}

func findPosition(portfolio []models.Position, assetId string) *models.Position {
	for i := range portfolio {
		if portfolio[i].AssetId == assetId {
			return &portfolio[i]
		}
	}
	return nil
}

func removePosition(portfolio []models.Position, assetId string) []models.Position {
	out := portfolio[:0]
	for _, pos := range portfolio {
		if pos.AssetId != assetId {
			out = append(out, pos)
		}
	}
	return out
}
