package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
)

type billRepository struct {
	db *sqlx.DB
}

func NewBillRepository(db *sqlx.DB) repository.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	query := `
		INSERT INTO bills (id, patient_id, description, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	bill.CreatedAt = time.Now()
	bill.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		bill.ID,
		bill.PatientID,
		bill.Description,
		bill.Amount,
		bill.Status,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

func (r *billRepository) ListPaid(ctx context.Context) ([]*model.Bill, error) {
	query := `SELECT * FROM bills WHERE status = 'paid'`
	var bills []*model.Bill
	err := r.db.SelectContext(ctx, &bills, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list paid bills: %w", err)
	}
	return bills, nil
}

func (r *billRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Bill, error) {
	query := `SELECT * FROM bills WHERE patient_id = $1 ORDER BY created_at DESC`
	var bills []*model.Bill
	err := r.db.SelectContext(ctx, &bills, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}
