package admin

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"coinsouq-exchange-go/internal/filestore"
	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/shopspring/decimal"
)

func setupKYCTest(t *testing.T) (*Service, store.ExchangeStore, func()) {
	st, err := filestore.NewService(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}

	cleanup := func() {
		st.Close()
	}
	return NewService(st), st, cleanup
}

func createKYCUser(t *testing.T, st store.ExchangeStore, id, status string, level int) {
	_, err := st.CreateUser(context.Background(), models.User{
		Id:          id,
		Name:        "User " + id,
		Email:       id + "@example.com",
		KYCLevel:    level,
		KYCStatus:   status,
		BalanceUSDT: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

func TestPendingKYC(t *testing.T) {
	service, st, cleanup := setupKYCTest(t)
	defer cleanup()

	createKYCUser(t, st, "u1", models.KYCStatusPending, 1)
	createKYCUser(t, st, "u2", models.KYCStatusVerified, 2)
	createKYCUser(t, st, "u3", models.KYCStatusPending, 0)

	pending, err := service.PendingKYC(context.Background())
	if err != nil {
		t.Fatalf("PendingKYC failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending users, got %d", len(pending))
	}
}

func TestApproveKYC(t *testing.T) {
	service, st, cleanup := setupKYCTest(t)
	defer cleanup()

	createKYCUser(t, st, "u1", models.KYCStatusPending, 1)

	user, err := service.ApproveKYC(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ApproveKYC failed: %v", err)
	}
	if user.KYCStatus != models.KYCStatusVerified {
		t.Errorf("Expected VERIFIED, got %s", user.KYCStatus)
	}
	if user.KYCLevel != VerifiedKYCLevel {
		t.Errorf("Expected level %d, got %d", VerifiedKYCLevel, user.KYCLevel)
	}
}

func TestRejectKYC_KeepsLevel(t *testing.T) {
	service, st, cleanup := setupKYCTest(t)
	defer cleanup()

	createKYCUser(t, st, "u1", models.KYCStatusPending, 1)

	user, err := service.RejectKYC(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RejectKYC failed: %v", err)
	}
	if user.KYCStatus != models.KYCStatusRejected {
		t.Errorf("Expected REJECTED, got %s", user.KYCStatus)
	}
	if user.KYCLevel != 1 {
		t.Errorf("Rejection must keep the numeric tier, got %d", user.KYCLevel)
	}
}

func TestApproveKYC_UnknownUser(t *testing.T) {
	service, _, cleanup := setupKYCTest(t)
	defer cleanup()

	if _, err := service.ApproveKYC(context.Background(), "missing"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}
