package appointment

import (
	"context"
	"time"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	"github.com/jwalitptl/dental-console/internal/service/panel"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/logger"
	"github.com/jwalitptl/dental-console/pkg/metrics"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

const dateLayout = "2006-01-02"

// Labels for the stats header.
const (
	LabelToday    = "Today's"
	LabelSelected = "Selected Date"
)

type Service struct {
	store     repository.AppointmentStore
	validator validator.Validator
	snapshots *panel.Set[[]model.Appointment]
	log       *logger.Logger
	now       func() time.Time
}

func NewService(store repository.AppointmentStore, v validator.Validator, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		validator: v,
		snapshots: panel.NewSet[[]model.Appointment]("appointments", m, panel.DefaultIdleTTL),
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) today() string {
	return s.now().Format(dateLayout)
}

// List fetches the collection and builds the panel for date (today when empty).
func (s *Service) List(ctx context.Context, sess *model.Session, date string) (*model.AppointmentsView, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	ctx, err = panel.Authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	all, err := s.snapshots.For(sess.ID).Refresh(ctx, s.store.List)
	if err != nil {
		return nil, err
	}
	return s.view(all, date), nil
}

func (s *Service) resolveDate(date string) (string, error) {
	if date == "" {
		return s.today(), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", apperrors.NewValidation(map[string]string{"date": "Date is invalid"})
	}
	return date, nil
}

func (s *Service) view(all []model.Appointment, date string) *model.AppointmentsView {
	sum := Aggregate(all, date)
	isToday := date == s.today()
	label := LabelSelected
	if isToday {
		label = LabelToday
	}
	return &model.AppointmentsView{
		Date:    date,
		IsToday: isToday,
		Label:   label,
		Stats: model.AppointmentStats{
			Total:                sum.Total,
			Remaining:            sum.RemainingCount,
			Completed:            sum.Completed,
			CompletionPercentage: sum.Percentage,
		},
		Appointments: sum.Remaining,
	}
}

// Forget drops the session's cached appointments.
func (s *Service) Forget(sessionID string) {
	s.snapshots.Forget(sessionID)
}

// Create books an appointment as upcoming and returns the refreshed panel for its date.
func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateAppointmentRequest) (*model.AppointmentsView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sess, req.AppointmentDate, func(ctx context.Context) error {
		apt, err := s.store.Create(ctx, req)
		if err != nil {
			return err
		}
		s.log.Info("appointment created", "appointment_id", apt.ID, "date", apt.AppointmentDate)
		return nil
	})
}

// Confirm marks an appointment completed. Confirming twice is accepted.
func (s *Service) Confirm(ctx context.Context, sess *model.Session, id int64, date string) (*model.AppointmentsView, error) {
	return s.mutate(ctx, sess, date, func(ctx context.Context) error {
		_, err := s.store.Confirm(ctx, id)
		return err
	})
}

// Cancel deletes an appointment outright.
func (s *Service) Cancel(ctx context.Context, sess *model.Session, id int64, date string) (*model.AppointmentsView, error) {
	return s.mutate(ctx, sess, date, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info("appointment cancelled", "appointment_id", id)
		return nil
	})
}

// mutate runs op under the panel's mutation lock, then re-fetches. A failed op leaves the
// snapshot as it was.
func (s *Service) mutate(ctx context.Context, sess *model.Session, date string, op func(context.Context) error) (*model.AppointmentsView, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	ctx, err = panel.Authorize(ctx, sess)
	if err != nil {
		return nil, err
	}

	var view *model.AppointmentsView
	err = s.snapshots.For(sess.ID).Mutate(ctx, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			return err
		}
		v, err := s.List(ctx, sess, date)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
