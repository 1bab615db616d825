// Package deposits tracks bank-transfer funding requests awaiting manual
// admin action. A request transitions out of PENDING exactly once; approval
// delegates the balance credit to the account ledger.
package deposits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinsouq-exchange-go/internal/ledger"
	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrAlreadyProcessed rejects any transition out of a terminal state. An
// approved request must never be re-credited.
var ErrAlreadyProcessed = errors.New("deposit request already processed")

var ErrInvalidAmount = errors.New("deposit amount must be positive")

type Workflow struct {
	store  store.ExchangeStore
	ledger *ledger.Service
}

func NewWorkflow(st store.ExchangeStore, ldg *ledger.Service) *Workflow {
	return &Workflow{store: st, ledger: ldg}
}

// Submit creates a PENDING bank-transfer request. Balances are untouched
// until an admin approves it. CARD deposits never come through here; they
// credit instantly via the ledger.
func (w *Workflow) Submit(ctx context.Context, userId, userName string, amount decimal.Decimal) (*models.DepositRequest, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	request := models.DepositRequest{
		Id:        uuid.New().String(),
		UserId:    userId,
		UserName:  userName,
		Amount:    amount,
		Method:    models.DepositMethodBank,
		Status:    models.DepositStatusPending,
		CreatedAt: time.Now(),
	}

	if err := w.store.AddDeposit(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to store deposit request: %w", err)
	}

	zap.L().Info("Deposit request submitted",
		zap.String("deposit_id", request.Id),
		zap.String("user_id", userId),
		zap.String("amount", amount.String()))

	return &request, nil
}

// Approve moves a PENDING request to APPROVED and credits the owning user
// exactly once.
func (w *Workflow) Approve(ctx context.Context, requestId string) (*models.DepositRequest, error) {
	request, err := w.store.GetDeposit(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.Status != models.DepositStatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadyProcessed, requestId, request.Status)
	}

	updated, err := w.store.UpdateDepositStatus(ctx, requestId, models.DepositStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to approve deposit request: %w", err)
	}

	if _, err := w.ledger.CreditDeposit(ctx, updated.UserId, updated.Amount, models.DepositMethodBank); err != nil {
		return nil, fmt.Errorf("deposit approved but credit failed: %w", err)
	}

	zap.L().Info("Deposit request approved",
		zap.String("deposit_id", requestId),
		zap.String("user_id", updated.UserId),
		zap.String("amount", updated.Amount.String()))

	return updated, nil
}

// Reject moves a PENDING request to REJECTED. No balance effect.
func (w *Workflow) Reject(ctx context.Context, requestId string) (*models.DepositRequest, error) {
	request, err := w.store.GetDeposit(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.Status != models.DepositStatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadyProcessed, requestId, request.Status)
	}

	updated, err := w.store.UpdateDepositStatus(ctx, requestId, models.DepositStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to reject deposit request: %w", err)
	}

	zap.L().Info("Deposit request rejected",
		zap.String("deposit_id", requestId),
		zap.String("user_id", updated.UserId))

	return updated, nil
}

// Pending lists requests still awaiting admin action, most recent first.
func (w *Workflow) Pending(ctx context.Context) ([]models.DepositRequest, error) {
	all, err := w.store.GetDeposits(ctx)
	if err != nil {
		return nil, err
	}

	var pending []models.DepositRequest
	for _, dep := range all {
		if dep.Status == models.DepositStatusPending {
			pending = append(pending, dep)
		}
	}
	return pending, nil
}
