package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/shopspring/decimal"
)

func setupFileStoreTest(t *testing.T) (*Service, string) {
	path := filepath.Join(t.TempDir(), "store.json")
	service, err := NewService(path)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	return service, path
}

func testUser() models.User {
	return models.User{
		Id:          "user1",
		Name:        "Test User",
		Email:       "test@example.com",
		BalanceUSDT: decimal.RequireFromString("1000"),
		KYCLevel:    1,
		KYCStatus:   models.KYCStatusPending,
		Portfolio: []models.Position{
			{
				AssetId:         "bitcoin",
				Amount:          decimal.RequireFromString("0.5"),
				AverageBuyPrice: decimal.RequireFromString("90000"),
			},
		},
	}
}

func TestCreateUser_Reload(t *testing.T) {
	service, path := setupFileStoreTest(t)
	ctx := context.Background()

	if _, err := service.CreateUser(ctx, testUser()); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := service.SetSession(ctx, "user1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	// A fresh service at the same path must see the same state.
	reopened, err := NewService(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}

	user, err := reopened.GetUserById(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUserById after reload failed: %v", err)
	}
	if user.Email != "test@example.com" {
		t.Errorf("Expected email test@example.com, got %s", user.Email)
	}
	if !user.BalanceUSDT.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected balance 1000, got %s", user.BalanceUSDT.String())
	}
	if len(user.Portfolio) != 1 || !user.Portfolio[0].Amount.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("Portfolio did not survive reload: %+v", user.Portfolio)
	}

	session, err := reopened.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession after reload failed: %v", err)
	}
	if session != "user1" {
		t.Errorf("Expected session user1, got %q", session)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	service, _ := setupFileStoreTest(t)
	ctx := context.Background()

	if _, err := service.CreateUser(ctx, testUser()); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dup := testUser()
	dup.Id = "user2"
	dup.Email = "TEST@Example.com" // email match is case-insensitive
	if _, err := service.CreateUser(ctx, dup); !errors.Is(err, store.ErrEmailExists) {
		t.Fatalf("Expected ErrEmailExists, got %v", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	service, _ := setupFileStoreTest(t)
	ctx := context.Background()

	if _, err := service.CreateUser(ctx, testUser()); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user, err := service.GetUserByEmail(ctx, "TEST@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.Id != "user1" {
		t.Errorf("Expected user1, got %s", user.Id)
	}
}

func TestUpdateUser_PartialMerge(t *testing.T) {
	service, _ := setupFileStoreTest(t)
	ctx := context.Background()

	if _, err := service.CreateUser(ctx, testUser()); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	newBalance := decimal.RequireFromString("250")
	points := 75
	updated, err := service.UpdateUser(ctx, "user1", store.UserUpdate{
		BalanceUSDT: &newBalance,
		Points:      &points,
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if !updated.BalanceUSDT.Equal(newBalance) {
		t.Errorf("Expected balance 250, got %s", updated.BalanceUSDT.String())
	}
	if updated.Points != 75 {
		t.Errorf("Expected points 75, got %d", updated.Points)
	}
	// Untouched fields keep their values.
	if updated.Name != "Test User" {
		t.Errorf("Name must be untouched, got %s", updated.Name)
	}
	if len(updated.Portfolio) != 1 {
		t.Errorf("Portfolio must be untouched, got %d positions", len(updated.Portfolio))
	}

	// A set portfolio replaces wholesale, including to empty.
	empty := []models.Position{}
	updated, err = service.UpdateUser(ctx, "user1", store.UserUpdate{Portfolio: &empty})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if len(updated.Portfolio) != 0 {
		t.Errorf("Expected empty portfolio, got %d positions", len(updated.Portfolio))
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	service, _ := setupFileStoreTest(t)

	name := "Nobody"
	if _, err := service.UpdateUser(context.Background(), "missing", store.UserUpdate{Name: &name}); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestDeposits(t *testing.T) {
	service, _ := setupFileStoreTest(t)
	ctx := context.Background()

	deposit := models.DepositRequest{
		Id:     "dep1",
		UserId: "user1",
		Amount: decimal.RequireFromString("500"),
		Method: models.DepositMethodBank,
		Status: models.DepositStatusPending,
	}
	if err := service.AddDeposit(ctx, deposit); err != nil {
		t.Fatalf("AddDeposit failed: %v", err)
	}

	updated, err := service.UpdateDepositStatus(ctx, "dep1", models.DepositStatusApproved)
	if err != nil {
		t.Fatalf("UpdateDepositStatus failed: %v", err)
	}
	if updated.Status != models.DepositStatusApproved {
		t.Errorf("Expected APPROVED, got %s", updated.Status)
	}

	if _, err := service.UpdateDepositStatus(ctx, "missing", models.DepositStatusApproved); !errors.Is(err, store.ErrDepositNotFound) {
		t.Fatalf("Expected ErrDepositNotFound, got %v", err)
	}
}

func TestActivityLogFilter(t *testing.T) {
	service, _ := setupFileStoreTest(t)
	ctx := context.Background()

	for _, entry := range []models.ActivityLog{
		{Id: "a1", UserId: "user1", Action: "Login Successful"},
		{Id: "a2", UserId: "user2", Action: "Login Successful"},
		{Id: "a3", UserId: "user1", Action: "Deposit CARD 100 USDT"},
	} {
		if err := service.AddActivityLog(ctx, entry); err != nil {
			t.Fatalf("AddActivityLog failed: %v", err)
		}
	}

	all, err := service.GetActivityLogs(ctx, "")
	if err != nil {
		t.Fatalf("GetActivityLogs failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(all))
	}
	// Most recent first.
	if all[0].Id != "a3" {
		t.Errorf("Expected a3 first, got %s", all[0].Id)
	}

	user1Logs, err := service.GetActivityLogs(ctx, "user1")
	if err != nil {
		t.Fatalf("GetActivityLogs failed: %v", err)
	}
	if len(user1Logs) != 2 {
		t.Errorf("Expected 2 entries for user1, got %d", len(user1Logs))
	}
}

func TestSession(t *testing.T) {
	service, _ := setupFileStoreTest(t)
	ctx := context.Background()

	session, err := service.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session != "" {
		t.Errorf("Expected no session, got %q", session)
	}

	if err := service.SetSession(ctx, "user1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	if session, _ = service.GetSession(ctx); session != "user1" {
		t.Errorf("Expected user1, got %q", session)
	}

	if err := service.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
	if session, _ = service.GetSession(ctx); session != "" {
		t.Errorf("Expected cleared session, got %q", session)
	}
}

func TestNewService_BadBlobStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write bad blob: %v", err)
	}

	service, err := NewService(path)
	if err != nil {
		t.Fatalf("A corrupt blob must not be fatal: %v", err)
	}

	users, err := service.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty store, got %d users", len(users))
	}
}
