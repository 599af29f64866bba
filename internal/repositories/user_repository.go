package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	intconfig "quickrail/internal/config"
	"quickrail/internal/domain"
	"quickrail/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	DB *sqlx.DB
}

func (r UserRepository) db() (*sqlx.DB, error) {
	if r.DB != nil {
		return r.DB, nil
	}
	if intconfig.DB != nil {
		return intconfig.DB, nil
	}
	return nil, fmt.Errorf("db tidak tersedia")
}

func (r UserRepository) Create(ctx context.Context, u models.User) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	var exists int
	if err := db.GetContext(ctx, &exists, db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), u.Email); err != nil {
		return fmt.Errorf("cek user: %w", err)
	}
	if exists > 0 {
		return domain.ConflictError{Resource: "user", Msg: "email sudah terdaftar"}
	}
	_, err = db.ExecContext(ctx, db.Rebind(`
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("simpan user: %w", err)
	}
	return nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	db, err := r.db()
	if err != nil {
		return u, err
	}
	err = db.GetContext(ctx, &u, db.Rebind(`
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.NotFoundError{Resource: "user", Err: err}
		}
		return u, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// MemoryUserStore backs auth in demo mode.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: map[string]models.User{}}
}

func (m *MemoryUserStore) Create(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ConflictError{Resource: "user", Msg: "email sudah terdaftar"}
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}
