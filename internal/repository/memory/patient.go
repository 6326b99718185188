package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
)

var _ repository.PatientStore = (*PatientStore)(nil)

type PatientStore struct {
	guard  tokenGuard
	mu     sync.RWMutex
	items  []model.Patient
	nextID int64
	now    func() time.Time
}

func NewPatientStore(seed []model.Patient, opts ...Option) *PatientStore {
	s := &PatientStore{guard: newTokenGuard(opts), nextID: 1, now: time.Now}
	for _, p := range seed {
		p.PaymentHistory = append([]model.Payment(nil), p.PaymentHistory...)
		p.Normalize()
		s.items = append(s.items, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

func (s *PatientStore) List(ctx context.Context) ([]model.Patient, error) {
	if err := s.guard.check(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Patient, len(s.items))
	for i, p := range s.items {
		p.PaymentHistory = append([]model.Payment{}, p.PaymentHistory...)
		out[i] = p
	}
	return out, nil
}

func (s *PatientStore) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.guard.check(ctx); err != nil {
		return nil, err
	}
	if !(req.TotalAmount > 0) {
		return nil, apperrors.NewBackend("Total amount must be greater than 0", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.NewPatient(s.nextID, req)
	s.nextID++
	s.items = append(s.items, p)
	return &p, nil
}

func (s *PatientStore) AddPayment(ctx context.Context, patientID int64, req *model.CreatePaymentRequest) (*model.Patient, error) {
	if err := s.guard.check(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != patientID {
			continue
		}
		updated := s.items[i]
		updated.PaymentHistory = append([]model.Payment(nil), updated.PaymentHistory...)
		if _, err := updated.ApplyPayment(req.Amount, req.Notes, s.now()); err != nil {
			return nil, apperrors.NewBackend(err.Error(), err)
		}
		s.items[i] = updated
		out := updated
		out.PaymentHistory = append([]model.Payment{}, updated.PaymentHistory...)
		return &out, nil
	}
	return nil, apperrors.NotFound("patient", nil)
}
