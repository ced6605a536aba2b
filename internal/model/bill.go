package model

import (
	"time"

	"github.com/google/uuid"
)

type BillStatus string

const (
	BillStatusPaid    BillStatus = "paid"
	BillStatusPending BillStatus = "pending"
	BillStatusOverdue BillStatus = "overdue"
)

type Bill struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	Description string     `db:"description" json:"description"`
	Amount      float64    `db:"amount" json:"amount"`
	Status      BillStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
