package admindash

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
	apperrors "github.com/SiddhuQuant/dietec-api/pkg/errors"
)

// Static change deltas shown on the metric cards. These are fixed
// presentation values, not computed trends.
const (
	changeTotalUsers     = 12
	changeActiveDoctors  = 3
	changeActivePatients = 9
	changeTotalBookings  = 28
)

// Service aggregates the admin dashboard views. Every method degrades
// to zeroed defaults on backend failure so the dashboard always
// renders.
type Service struct {
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	admins       repository.AdminRepository
	appointments repository.AppointmentRepository
	bills        repository.BillRepository
	logger       zerolog.Logger
}

func NewService(patients repository.PatientRepository, doctors repository.DoctorRepository,
	admins repository.AdminRepository, appointments repository.AppointmentRepository,
	bills repository.BillRepository, logger zerolog.Logger) *Service {
	return &Service{
		patients:     patients,
		doctors:      doctors,
		admins:       admins,
		appointments: appointments,
		bills:        bills,
		logger:       logger,
	}
}

// Metrics builds the four admin metric cards. The three counts run
// concurrently; each failed count is logged and rendered as zero.
func (s *Service) Metrics(ctx context.Context) []model.SystemMetric {
	var (
		wg     sync.WaitGroup
		counts model.AdminMetrics
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		n, err := s.patients.Count(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to count patients")
			return
		}
		counts.ActivePatients = n
	}()
	go func() {
		defer wg.Done()
		n, err := s.doctors.CountByStatus(ctx, model.StatusActive)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to count doctors")
			return
		}
		counts.ActiveDoctors = n
	}()
	go func() {
		defer wg.Done()
		n, err := s.appointments.Count(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to count appointments")
			return
		}
		counts.TotalBookings = n
	}()
	wg.Wait()
	counts.TotalUsers = counts.ActivePatients + counts.ActiveDoctors

	return []model.SystemMetric{
		{Label: "Total Users", Value: counts.TotalUsers, Change: changeTotalUsers},
		{Label: "Active Doctors", Value: counts.ActiveDoctors, Change: changeActiveDoctors},
		{Label: "Active Patients", Value: counts.ActivePatients, Change: changeActivePatients},
		{Label: "Total Bookings", Value: counts.TotalBookings, Change: changeTotalBookings},
	}
}

// Revenue buckets paid bills into today / last 7 days / last 30 days /
// all time. Bucket boundaries are inclusive, so a bill created exactly
// at midnight counts toward today.
func (s *Service) Revenue(ctx context.Context) model.Revenue {
	bills, err := s.bills.ListPaid(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list paid bills")
		return model.Revenue{}
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Week and month windows are anchored at midnight of today, not at
	// the current instant, so the buckets don't shrink as the day goes on.
	weekAgo := startOfDay.AddDate(0, 0, -7)
	monthAgo := startOfDay.AddDate(0, 0, -30)

	var rev model.Revenue
	for _, b := range bills {
		rev.Total += b.Amount
		if !b.CreatedAt.Before(monthAgo) {
			rev.Month += b.Amount
		}
		if !b.CreatedAt.Before(weekAgo) {
			rev.Week += b.Amount
		}
		if !b.CreatedAt.Before(startOfDay) {
			rev.Today += b.Amount
		}
	}
	return rev
}

// ListUsers merges all three identity tables into one flat list for the
// user management screen: patients first, then doctors, then admins.
// The three queries run concurrently; a failed table is logged and
// contributes nothing.
func (s *Service) ListUsers(ctx context.Context) []model.PortalUser {
	var (
		wg          sync.WaitGroup
		patientRows []*model.Patient
		doctorRows  []*model.Doctor
		adminRows   []*model.Admin
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rows, err := s.patients.List(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list patients")
			return
		}
		patientRows = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.doctors.List(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list doctors")
			return
		}
		doctorRows = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.admins.List(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list admins")
			return
		}
		adminRows = rows
	}()
	wg.Wait()

	users := make([]model.PortalUser, 0, len(patientRows)+len(doctorRows)+len(adminRows))
	for _, p := range patientRows {
		users = append(users, model.PortalUser{
			ID:       p.ID,
			Name:     p.Name,
			Email:    p.Email,
			Role:     model.RolePatient,
			JoinDate: p.CreatedAt.Format("2006-01-02"),
			Status:   p.Status,
		})
	}
	for _, d := range doctorRows {
		users = append(users, model.PortalUser{
			ID:       d.ID,
			Name:     d.Name,
			Email:    d.Email,
			Role:     model.RoleDoctor,
			JoinDate: d.CreatedAt.Format("2006-01-02"),
			Status:   d.Status,
		})
	}
	for _, a := range adminRows {
		users = append(users, model.PortalUser{
			ID:       a.ID,
			Name:     a.Name,
			Email:    a.Email,
			Role:     model.RoleAdmin,
			JoinDate: a.CreatedAt.Format("2006-01-02"),
			Status:   a.Status,
		})
	}
	return users
}

// DeleteUser removes a user from the table its role names. Unlike the
// read paths this surfaces errors: a failed delete must not look like
// success.
func (s *Service) DeleteUser(ctx context.Context, role string, id uuid.UUID) error {
	switch role {
	case model.RolePatient:
		return s.patients.Delete(ctx, id)
	case model.RoleDoctor:
		return s.doctors.Delete(ctx, id)
	case model.RoleAdmin:
		return s.admins.Delete(ctx, id)
	default:
		return apperrors.BadRequest(fmt.Sprintf("unknown role %q", role), nil)
	}
}
