package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name,omitempty"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	APIKeyHash     string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type UsersStore interface {
	CreateUser(ctx context.Context, u *User) (int64, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type usersStore struct {
	db *DB
}

func NewUsersStore(db *DB) UsersStore {
	return &usersStore{db: db}
}

func (s *usersStore) CreateUser(ctx context.Context, u *User) (int64, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	var id int64
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO users(email, name, organization_id, api_key_hash, created_at)
		VALUES(?,?,?,?,?) RETURNING id`),
		u.Email, u.Name, nullableID(u.OrganizationID), u.APIKeyHash, u.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	u.ID = id
	return id, nil
}

func (s *usersStore) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.getUser(ctx, `id=?`, id)
}

func (s *usersStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, `email=?`, strings.ToLower(strings.TrimSpace(email)))
}

func (s *usersStore) getUser(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, email, name, organization_id, api_key_hash, created_at
		FROM users WHERE `+where), arg)
	var u User
	var orgID sql.NullInt64
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &orgID, &u.APIKeyHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if orgID.Valid {
		u.OrganizationID = &orgID.Int64
	}
	return &u, nil
}
