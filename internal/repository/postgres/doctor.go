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

type doctorRepository struct {
	db     *sqlx.DB
	hasher security.PasswordHasher
}

func NewDoctorRepository(db *sqlx.DB, hasher security.PasswordHasher) repository.DoctorRepository {
	return &doctorRepository{db: db, hasher: hasher}
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE email = $1`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

// VerifyCredentials returns the matching doctor or ErrNotFound. It does
// not distinguish an unknown email from a wrong password.
func (r *doctorRepository) VerifyCredentials(ctx context.Context, email, password string) (*model.Doctor, error) {
	doctor, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := r.hasher.Compare(doctor.PasswordHash, password); err != nil {
		return nil, repository.ErrNotFound
	}
	return doctor, nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM doctors WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT * FROM doctors ORDER BY created_at DESC`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query)
	return doctors, err
}

func (r *doctorRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors WHERE status = $1`, status)
	return count, err
}
