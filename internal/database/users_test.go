package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every :memory: connection is its own database; keep the pool at one.
	db.SetMaxOpenConns(1)

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}
	return service, cleanup
}

func insertTestUser(t *testing.T, service *Service) *models.User {
	user, err := service.CreateUser(context.Background(), models.User{
		Id:          "user1",
		Name:        "Test User",
		Email:       "test@example.com",
		KYCStatus:   models.KYCStatusPending,
		BalanceUSDT: decimal.RequireFromString("1000"),
		Portfolio: []models.Position{
			{
				AssetId:         "bitcoin",
				Amount:          decimal.RequireFromString("0.5"),
				AverageBuyPrice: decimal.RequireFromString("90000"),
			},
		},
	})
	if err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	user := insertTestUser(t, service)

	if !user.BalanceUSDT.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected balance 1000, got %s", user.BalanceUSDT.String())
	}
	if len(user.Portfolio) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(user.Portfolio))
	}
	if !user.Portfolio[0].AverageBuyPrice.Equal(decimal.RequireFromString("90000")) {
		t.Errorf("Expected avg buy price 90000, got %s", user.Portfolio[0].AverageBuyPrice.String())
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	insertTestUser(t, service)

	_, err := service.CreateUser(context.Background(), models.User{
		Id:          "user2",
		Name:        "Other User",
		Email:       "test@example.com",
		BalanceUSDT: decimal.Zero,
	})
	if !errors.Is(err, store.ErrEmailExists) {
		t.Fatalf("Expected ErrEmailExists, got %v", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	insertTestUser(t, service)

	user, err := service.GetUserByEmail(context.Background(), "TEST@Example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.Id != "user1" {
		t.Errorf("Expected user1, got %s", user.Id)
	}
}

func TestGetUserById_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetUserById(context.Background(), "missing")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUser_PartialMerge(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	insertTestUser(t, service)

	newBalance := decimal.RequireFromString("250")
	status := models.KYCStatusVerified
	updated, err := service.UpdateUser(context.Background(), "user1", store.UserUpdate{
		BalanceUSDT: &newBalance,
		KYCStatus:   &status,
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if !updated.BalanceUSDT.Equal(newBalance) {
		t.Errorf("Expected balance 250, got %s", updated.BalanceUSDT.String())
	}
	if updated.KYCStatus != models.KYCStatusVerified {
		t.Errorf("Expected VERIFIED, got %s", updated.KYCStatus)
	}
	// Untouched fields keep their values.
	if updated.Name != "Test User" {
		t.Errorf("Name must be untouched, got %s", updated.Name)
	}
	if len(updated.Portfolio) != 1 {
		t.Errorf("Portfolio must be untouched, got %d positions", len(updated.Portfolio))
	}
}

func TestUpdateUser_ReplacesPortfolio(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	insertTestUser(t, service)

	portfolio := []models.Position{
		{
			AssetId:         "ethereum",
			Amount:          decimal.RequireFromString("2"),
			AverageBuyPrice: decimal.RequireFromString("3200"),
		},
	}
	updated, err := service.UpdateUser(context.Background(), "user1", store.UserUpdate{
		Portfolio: &portfolio,
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if len(updated.Portfolio) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(updated.Portfolio))
	}
	if updated.Portfolio[0].AssetId != "ethereum" {
		t.Errorf("Expected ethereum, got %s", updated.Portfolio[0].AssetId)
	}

	// Replacing with empty removes every position.
	empty := []models.Position{}
	updated, err = service.UpdateUser(context.Background(), "user1", store.UserUpdate{
		Portfolio: &empty,
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if len(updated.Portfolio) != 0 {
		t.Errorf("Expected empty portfolio, got %d positions", len(updated.Portfolio))
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	name := "Nobody"
	_, err := service.UpdateUser(context.Background(), "missing", store.UserUpdate{Name: &name})
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUsers(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	insertTestUser(t, service)
	if _, err := service.CreateUser(context.Background(), models.User{
		Id:          "user2",
		Name:        "Second User",
		Email:       "second@example.com",
		BalanceUSDT: decimal.Zero,
	}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	users, err := service.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
}
