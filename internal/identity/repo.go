package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users(id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		id, username, email, passwordHash, RoleUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, ErrTaken
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, avatar, description, created_at
		FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Avatar, &u.Description, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, avatar, description, created_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Avatar, &u.Description, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
