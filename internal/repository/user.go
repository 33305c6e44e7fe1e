package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
)

const userEmailIndex = "users_email_key"

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	CreateUser(ctx context.Context, user model.User) error
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRepository) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (@id, @email, @password_hash, @created_at)
	`, pgx.NamedArgs{
		"id":            user.ID,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
	})
	if db.IsUniqueViolation(err, userEmailIndex) {
		return fmt.Errorf("insert user: %w", ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r userRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE LOWER(email) = LOWER(@email)
	`, pgx.NamedArgs{"email": email})
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if db.IsNoRows(err) {
		return model.User{}, fmt.Errorf("query user: %w", ErrNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("collect user: %w", err)
	}

	return model.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}
