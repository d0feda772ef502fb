package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectUserColumns = `id, username, name, role, password_hash, created_at`

func scanUser(s scanner) (*user.User, error) {
	var (
		u    user.User
		role string
	)

	if err := s.Scan(&u.ID, &u.Username, &u.Name, &role, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}

	u.Role = user.Role(role)

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.Username, u.Name, string(u.Role), u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrDuplicateUsername
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) get(ctx context.Context, where string, arg any) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.get(ctx, "id = $1", id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.get(ctx, "username = $1", username)
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectUserColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (s *Store) CountByRole(ctx context.Context, role user.Role) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}

	return n, nil
}
