package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Authenticate checks local credentials against the users table.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	var id int
	var hash string
	err := s.db.QueryRow(ctx, `
    SELECT id, password
    FROM users
    WHERE username = $1
  `, username).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := CheckPassword(hash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return User{ID: strconv.Itoa(id), Name: username}, nil
}
