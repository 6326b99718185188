// Package memory is an in-process stand-in for the clinic backend. It backs demo mode and
// the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
)

var _ repository.AppointmentStore = (*AppointmentStore)(nil)

type AppointmentStore struct {
	guard  tokenGuard
	mu     sync.RWMutex
	items  []model.Appointment
	nextID int64
}

// NewAppointmentStore copies seed; the store assigns IDs above the largest seeded one.
func NewAppointmentStore(seed []model.Appointment, opts ...Option) *AppointmentStore {
	s := &AppointmentStore{guard: newTokenGuard(opts), nextID: 1}
	for _, a := range seed {
		s.items = append(s.items, a)
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
	return s
}

func (s *AppointmentStore) List(ctx context.Context) ([]model.Appointment, error) {
	if err := s.guard.check(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Appointment, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *AppointmentStore) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.guard.check(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	apt := model.Appointment{
		ID:              s.nextID,
		PatientName:     req.PatientName,
		PhoneNumber:     req.PhoneNumber,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Procedure:       req.Procedure,
		Status:          model.AppointmentStatusUpcoming,
	}
	s.nextID++
	s.items = append(s.items, apt)
	return &apt, nil
}

func (s *AppointmentStore) Confirm(ctx context.Context, id int64) (*model.Appointment, error) {
	if err := s.guard.check(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = model.AppointmentStatusCompleted
			apt := s.items[i]
			return &apt, nil
		}
	}
	return nil, apperrors.NotFound("appointment", nil)
}

func (s *AppointmentStore) Delete(ctx context.Context, id int64) error {
	if err := s.guard.check(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("appointment", nil)
}
