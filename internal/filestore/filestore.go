// Package filestore is the whole-blob persistence backend: the entire schema
// lives in one JSON file, loaded once at startup and rewritten in full on
// every mutation. Writes go through a temp file and rename so a crash leaves
// either the old blob or the new one, never a torn mix.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.ExchangeStore.
var _ store.ExchangeStore = (*Service)(nil)

type schema struct {
	Users         []models.User           `json:"users"`
	Transactions  []models.Transaction    `json:"transactions"`
	Deposits      []models.DepositRequest `json:"deposits"`
	ActivityLogs  []models.ActivityLog    `json:"activity_logs"`
	SessionUserId string                  `json:"session_user_id"`
}

type Service struct {
	mu   sync.Mutex
	path string
	data schema
}

// NewService loads the blob at path, or starts from an empty schema when the
// file is missing or unreadable. A bad blob is never fatal on load.
func NewService(path string) (*Service, error) {
	if path == "" {
		return nil, fmt.Errorf("store file path cannot be empty")
	}

	s := &Service{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("Failed to read store file, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s, nil
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		zap.L().Warn("Store file is not valid JSON, starting empty",
			zap.String("path", path), zap.Error(err))
		s.data = schema{}
	}

	zap.L().Info("Store file loaded",
		zap.String("path", path),
		zap.Int("users", len(s.data.Users)),
		zap.Int("deposits", len(s.data.Deposits)))
	return s, nil
}

func (s *Service) Close() {}

// save serializes the whole schema. Callers hold s.mu.
func (s *Service) save(data schema) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".coinsouq-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}
	return nil
}

// mutate applies fn to a copy of the schema, persists the copy, and only then
// swaps it in. A failed write leaves the in-memory state untouched.
func (s *Service) mutate(fn func(*schema) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (d schema) clone() schema {
	out := schema{
		Users:         make([]models.User, len(d.Users)),
		Transactions:  append([]models.Transaction(nil), d.Transactions...),
		Deposits:      append([]models.DepositRequest(nil), d.Deposits...),
		ActivityLogs:  append([]models.ActivityLog(nil), d.ActivityLogs...),
		SessionUserId: d.SessionUserId,
	}
	for i, u := range d.Users {
		u.Portfolio = append([]models.Position(nil), u.Portfolio...)
		out.Users[i] = u
	}
	return out
}

func copyUser(u models.User) models.User {
	u.Portfolio = append([]models.Position(nil), u.Portfolio...)
	return u
}

// --- Users ---

func (s *Service) GetUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, len(s.data.Users))
	for i, u := range s.data.Users {
		users[i] = copyUser(u)
	}
	return users, nil
}

func (s *Service) findUser(match func(models.User) bool) *models.User {
	for i := range s.data.Users {
		if match(s.data.Users[i]) {
			return &s.data.Users[i]
		}
	}
	return nil
}

func (s *Service) GetUserById(_ context.Context, userId string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findUser(func(u models.User) bool { return u.Id == userId }); u != nil {
		out := copyUser(*u)
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, userId)
}

func (s *Service) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findUser(func(u models.User) bool { return strings.EqualFold(u.Email, email) }); u != nil {
		out := copyUser(*u)
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, email)
}

func (s *Service) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := s.mutate(func(d *schema) error {
		for _, u := range d.Users {
			if strings.EqualFold(u.Email, user.Email) {
				return fmt.Errorf("%w: %s", store.ErrEmailExists, user.Email)
			}
		}
		d.Users = append(d.Users, copyUser(user))
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("User created successfully", zap.String("id", user.Id), zap.String("email", user.Email))
	out := copyUser(user)
	return &out, nil
}

func (s *Service) UpdateUser(_ context.Context, userId string, update store.UserUpdate) (*models.User, error) {
	var merged models.User

	err := s.mutate(func(d *schema) error {
		var target *models.User
		for i := range d.Users {
			if d.Users[i].Id == userId {
				target = &d.Users[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("%w: %s", store.ErrUserNotFound, userId)
		}

		if update.Name != nil {
			target.Name = *update.Name
		}
		if update.PasswordHash != nil {
			target.PasswordHash = *update.PasswordHash
		}
		if update.BalanceUSDT != nil {
			target.BalanceUSDT = *update.BalanceUSDT
		}
		if update.Portfolio != nil {
			target.Portfolio = append([]models.Position(nil), (*update.Portfolio)...)
		}
		if update.KYCLevel != nil {
			target.KYCLevel = *update.KYCLevel
		}
		if update.KYCStatus != nil {
			target.KYCStatus = *update.KYCStatus
		}
		if update.Points != nil {
			target.Points = *update.Points
		}
		if update.StreakDays != nil {
			target.StreakDays = *update.StreakDays
		}
		if update.LastLoginDate != nil {
			target.LastLoginDate = *update.LastLoginDate
		}
		target.UpdatedAt = time.Now()

		merged = copyUser(*target)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// --- Trade receipts ---

func (s *Service) AddTransaction(_ context.Context, tx models.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	return s.mutate(func(d *schema) error {
		// Most recent first, matching read order.
		d.Transactions = append([]models.Transaction{tx}, d.Transactions...)
		return nil
	})
}

func (s *Service) GetTransactionsByUser(_ context.Context, userId string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Transaction
	for _, tx := range s.data.Transactions {
		if tx.UserId == userId {
			out = append(out, tx)
		}
	}
	return out, nil
}

// --- Deposit requests ---

func (s *Service) AddDeposit(_ context.Context, deposit models.DepositRequest) error {
	if deposit.CreatedAt.IsZero() {
		deposit.CreatedAt = time.Now()
	}
	return s.mutate(func(d *schema) error {
		d.Deposits = append([]models.DepositRequest{deposit}, d.Deposits...)
		return nil
	})
}

func (s *Service) GetDeposit(_ context.Context, depositId string) (*models.DepositRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dep := range s.data.Deposits {
		if dep.Id == depositId {
			out := dep
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", store.ErrDepositNotFound, depositId)
}

func (s *Service) GetDeposits(_ context.Context) ([]models.DepositRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.DepositRequest(nil), s.data.Deposits...), nil
}

func (s *Service) UpdateDepositStatus(_ context.Context, depositId, status string) (*models.DepositRequest, error) {
	var updated models.DepositRequest

	err := s.mutate(func(d *schema) error {
		for i := range d.Deposits {
			if d.Deposits[i].Id == depositId {
				d.Deposits[i].Status = status
				updated = d.Deposits[i]
				return nil
			}
		}
		return fmt.Errorf("%w: %s", store.ErrDepositNotFound, depositId)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// --- Activity log ---

func (s *Service) AddActivityLog(_ context.Context, entry models.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.mutate(func(d *schema) error {
		d.ActivityLogs = append([]models.ActivityLog{entry}, d.ActivityLogs...)
		return nil
	})
}

func (s *Service) GetActivityLogs(_ context.Context, userId string) ([]models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ActivityLog
	for _, entry := range s.data.ActivityLogs {
		if userId == "" || entry.UserId == userId {
			out = append(out, entry)
		}
	}
	return out, nil
}

// --- Session pointer ---

func (s *Service) SetSession(_ context.Context, userId string) error {
	return s.mutate(func(d *schema) error {
		d.SessionUserId = userId
		return nil
	})
}

func (s *Service) GetSession(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.SessionUserId, nil
}

func (s *Service) ClearSession(_ context.Context) error {
	return s.mutate(func(d *schema) error {
		d.SessionUserId = ""
		return nil
	})
}
