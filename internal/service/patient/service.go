package patient

import (
	"context"
	"errors"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	"github.com/jwalitptl/dental-console/internal/service/panel"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/logger"
	"github.com/jwalitptl/dental-console/pkg/metrics"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

type Service struct {
	store     repository.PatientStore
	validator validator.Validator
	snapshots *panel.Set[[]model.Patient]
	log       *logger.Logger
}

func NewService(store repository.PatientStore, v validator.Validator, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		validator: v,
		snapshots: panel.NewSet[[]model.Patient]("patients", m, panel.DefaultIdleTTL),
		log:       log,
	}
}

// Forget drops the session's cached ledger.
func (s *Service) Forget(sessionID string) {
	s.snapshots.Forget(sessionID)
}

func (s *Service) refresh(ctx context.Context, sess *model.Session) ([]model.Patient, error) {
	return s.snapshots.For(sess.ID).Refresh(ctx, func(ctx context.Context) ([]model.Patient, error) {
		patients, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range patients {
			patients[i].Normalize()
		}
		return patients, nil
	})
}

// List returns the filtered patient list. Stats always cover the whole collection.
func (s *Service) List(ctx context.Context, sess *model.Session, query string) (*model.PatientsView, error) {
	ctx, err := panel.Authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	all, err := s.refresh(ctx, sess)
	if err != nil {
		return nil, err
	}
	return view(all, query), nil
}

func view(all []model.Patient, query string) *model.PatientsView {
	filtered := Search(all, query)
	return &model.PatientsView{
		Query:      query,
		Stats:      Summarize(all),
		Patients:   filtered,
		EmptyState: EmptyState(all, filtered),
	}
}

// Get returns one patient with payment history from a fresh fetch.
func (s *Service) Get(ctx context.Context, sess *model.Session, id int64) (*model.Patient, error) {
	ctx, err := panel.Authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	all, err := s.refresh(ctx, sess)
	if err != nil {
		return nil, err
	}
	return find(all, id)
}

func find(all []model.Patient, id int64) (*model.Patient, error) {
	for i := range all {
		if all[i].ID == id {
			p := all[i]
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

// Create opens a ledger and returns the new record as re-fetched.
func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	ctx, err := panel.Authorize(ctx, sess)
	if err != nil {
		return nil, err
	}

	var created *model.Patient
	err = s.snapshots.For(sess.ID).Mutate(ctx, func(ctx context.Context) error {
		p, err := s.store.Create(ctx, req)
		if err != nil {
			return err
		}
		all, err := s.refresh(ctx, sess)
		if err != nil {
			return err
		}
		if created, err = find(all, p.ID); err != nil {
			p.Normalize()
			created = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("patient created", "patient_id", created.ID)
	return created, nil
}

// AddPayment checks the amount against a freshly fetched ledger before the backend sees it.
func (s *Service) AddPayment(ctx context.Context, sess *model.Session, id int64, req *model.CreatePaymentRequest) (*model.Patient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	ctx, err := panel.Authorize(ctx, sess)
	if err != nil {
		return nil, err
	}

	var updated *model.Patient
	err = s.snapshots.For(sess.ID).Mutate(ctx, func(ctx context.Context) error {
		all, err := s.refresh(ctx, sess)
		if err != nil {
			return err
		}
		current, err := find(all, id)
		if err != nil {
			return err
		}
		if err := current.CheckPayment(req.Amount); err != nil {
			msg := "Amount must be greater than 0"
			if errors.Is(err, model.ErrPaymentExceeds) {
				msg = "Payment amount exceeds remaining balance"
			}
			return apperrors.NewValidation(map[string]string{"amount": msg})
		}

		if _, err := s.store.AddPayment(ctx, id, req); err != nil {
			return err
		}
		all, err = s.refresh(ctx, sess)
		if err != nil {
			return err
		}
		updated, err = find(all, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("payment recorded", "patient_id", id, "amount", req.Amount)
	return updated, nil
}
