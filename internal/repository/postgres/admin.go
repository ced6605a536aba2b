package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
	"github.com/SiddhuQuant/dietec-api/pkg/security"
)

type adminRepository struct {
	db     *sqlx.DB
	hasher security.PasswordHasher
}

func NewAdminRepository(db *sqlx.DB, hasher security.PasswordHasher) repository.AdminRepository {
	return &adminRepository{db: db, hasher: hasher}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	query := `SELECT * FROM admins WHERE email = $1`
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

func (r *adminRepository) VerifyCredentials(ctx context.Context, email, password string) (*model.Admin, error) {
	admin, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := r.hasher.Compare(admin.PasswordHash, password); err != nil {
		return nil, repository.ErrNotFound
	}
	return admin, nil
}

func (r *adminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM admins WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *adminRepository) List(ctx context.Context) ([]*model.Admin, error) {
	query := `SELECT * FROM admins ORDER BY created_at DESC`
	var admins []*model.Admin
	err := r.db.SelectContext(ctx, &admins, query)
	return admins, err
}
