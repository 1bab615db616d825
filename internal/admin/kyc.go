// Package admin holds back-office actions: KYC review of user accounts.
// Deposit adjudication lives in the deposits workflow.
package admin

import (
	"context"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"go.uber.org/zap"
)

// VerifiedKYCLevel is the tier granted on approval (ID verified).
const VerifiedKYCLevel = 2

type Service struct {
	store store.ExchangeStore
}

func NewService(st store.ExchangeStore) *Service {
	return &Service{store: st}
}

// PendingKYC lists users whose verification is still awaiting review.
func (s *Service) PendingKYC(ctx context.Context) ([]models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	var pending []models.User
	for _, user := range users {
		if user.KYCStatus == models.KYCStatusPending {
			pending = append(pending, user)
		}
	}
	return pending, nil
}

// ApproveKYC verifies the user and raises the tier to ID-verified.
func (s *Service) ApproveKYC(ctx context.Context, userId string) (*models.User, error) {
	level := VerifiedKYCLevel
	status := models.KYCStatusVerified

	user, err := s.store.UpdateUser(ctx, userId, store.UserUpdate{
		KYCLevel:  &level,
		KYCStatus: &status,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("KYC approved",
		zap.String("user_id", userId),
		zap.Int("kyc_level", user.KYCLevel))
	return user, nil
}

// RejectKYC marks the submission rejected. The numeric tier is untouched.
func (s *Service) RejectKYC(ctx context.Context, userId string) (*models.User, error) {
	status := models.KYCStatusRejected

	user, err := s.store.UpdateUser(ctx, userId, store.UserUpdate{
		KYCStatus: &status,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("KYC rejected", zap.String("user_id", userId))
	return user, nil
}
