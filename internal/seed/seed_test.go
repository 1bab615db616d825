package seed

import (
	"context"
	"path/filepath"
	"testing"

	"coinsouq-exchange-go/internal/filestore"
	"coinsouq-exchange-go/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func TestRun(t *testing.T) {
	st, err := filestore.NewService(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := Run(ctx, st); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	users, err := st.GetUsers(ctx)
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("Expected 3 demo users, got %d", len(users))
	}

	admin, err := st.GetUserByEmail(ctx, "admin@coinsouq.example")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if admin.KYCStatus != models.KYCStatusVerified {
		t.Errorf("Expected VERIFIED admin, got %s", admin.KYCStatus)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin-demo-pass")); err != nil {
		t.Error("Seeded password must be stored as a matching bcrypt hash")
	}

	deposits, err := st.GetDeposits(ctx)
	if err != nil {
		t.Fatalf("GetDeposits failed: %v", err)
	}
	if len(deposits) != 3 {
		t.Fatalf("Expected 3 demo deposits, got %d", len(deposits))
	}

	pendingCount := 0
	for _, dep := range deposits {
		if dep.Status == models.DepositStatusPending {
			pendingCount++
		}
	}
	if pendingCount != 2 {
		t.Errorf("Expected 2 pending demo deposits, got %d", pendingCount)
	}
}

func TestRun_Idempotent(t *testing.T) {
	st, err := filestore.NewService(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := Run(ctx, st); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if err := Run(ctx, st); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	users, err := st.GetUsers(ctx)
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("Re-seeding must be a no-op, got %d users", len(users))
	}

	deposits, err := st.GetDeposits(ctx)
	if err != nil {
		t.Fatalf("GetDeposits failed: %v", err)
	}
	if len(deposits) != 3 {
		t.Errorf("Re-seeding must be a no-op, got %d deposits", len(deposits))
	}
}
