package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
)

type authAccountRepository struct {
	db *sqlx.DB
}

func NewAuthAccountRepository(db *sqlx.DB) repository.AuthAccountRepository {
	return &authAccountRepository{db: db}
}

func (r *authAccountRepository) Create(ctx context.Context, account *model.AuthAccount) error {
	query := `
		INSERT INTO auth_accounts (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	account.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create auth account: %w", err)
	}
	return nil
}

func (r *authAccountRepository) GetByEmail(ctx context.Context, email string) (*model.AuthAccount, error) {
	query := `SELECT * FROM auth_accounts WHERE email = $1`
	var account model.AuthAccount
	err := r.db.GetContext(ctx, &account, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth account: %w", err)
	}
	return &account, nil
}
