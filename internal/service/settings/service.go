package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/storage"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/logger"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

// StorageKey is where the settings blob lives.
const StorageKey = "clinic_settings_v1"

const draftTTL = 2 * time.Hour

// HoursUpdate changes one working-hours row. Nil fields are left alone.
type HoursUpdate struct {
	Enabled *bool   `json:"enabled"`
	From    *string `json:"from" validate:"omitempty,clock24" label:"From"`
	To      *string `json:"to" validate:"omitempty,clock24" label:"To"`
}

type Service struct {
	store     storage.Store
	validator validator.Validator
	log       *logger.Logger

	mu     sync.Mutex
	drafts *cache.Cache
}

func NewService(store storage.Store, v validator.Validator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		validator: v,
		log:       log,
		drafts:    cache.New(draftTTL, 10*time.Minute),
	}
}

// Load returns the stored settings merged over the defaults. Nothing stored, or a blob that
// cannot be parsed, yields the defaults.
func (s *Service) Load(ctx context.Context) (model.ClinicSettings, error) {
	defaults := model.DefaultClinicSettings()
	raw, err := s.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return model.ClinicSettings{}, apperrors.Internal(fmt.Errorf("load settings: %w", err))
	}

	merged, err := Merge(defaults, raw)
	if err != nil {
		s.log.Warn("stored settings unreadable, using defaults", "key", StorageKey, "error", err.Error())
		return defaults, nil
	}
	return merged, nil
}

// Save validates and writes the whole settings object in a single Set.
func (s *Service) Save(ctx context.Context, settings model.ClinicSettings) error {
	if err := s.validator.Validate(&settings); err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("encode settings: %w", err))
	}
	if err := s.store.Set(ctx, StorageKey, data, 0); err != nil {
		return apperrors.Internal(fmt.Errorf("save settings: %w", err))
	}
	s.log.Info("settings saved", "key", StorageKey)
	return nil
}

// Patch merges a partial document over the stored settings and saves the result.
func (s *Service) Patch(ctx context.Context, raw []byte) (model.ClinicSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patch(ctx, raw)
}

// PatchDraft patches the stored settings and resets the session's draft to the result, with
// no draft save able to run in between.
func (s *Service) PatchDraft(ctx context.Context, sessionID string, raw []byte) (Draft, error) {
	return s.withDraft(ctx, sessionID, func(d *Draft) error {
		merged, err := s.patch(ctx, raw)
		if err != nil {
			return err
		}
		*d = *NewDraft(merged)
		return nil
	})
}

// patch is Patch for callers holding s.mu.
func (s *Service) patch(ctx context.Context, raw []byte) (model.ClinicSettings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return model.ClinicSettings{}, err
	}
	merged, err := Merge(current, raw)
	if err != nil {
		return model.ClinicSettings{}, apperrors.NewBadRequest("settings must be a JSON object", err)
	}
	if err := s.Save(ctx, merged); err != nil {
		return model.ClinicSettings{}, err
	}
	return merged, nil
}

// draft returns the session's draft, opening one from storage if needed. Callers hold s.mu.
func (s *Service) draft(ctx context.Context, sessionID string) (*Draft, error) {
	if d, ok := s.drafts.Get(sessionID); ok {
		return d.(*Draft), nil
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	d := NewDraft(loaded)
	s.drafts.SetDefault(sessionID, d)
	return d, nil
}

// withDraft applies fn to a copy of the draft and keeps the copy only if fn succeeds.
func (s *Service) withDraft(ctx context.Context, sessionID string, fn func(*Draft) error) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.draft(ctx, sessionID)
	if err != nil {
		return Draft{}, err
	}
	work := d.clone()
	if err := fn(&work); err != nil {
		return Draft{}, err
	}
	s.drafts.SetDefault(sessionID, &work)
	return work.clone(), nil
}

// Draft returns the session's current editing state.
func (s *Service) Draft(ctx context.Context, sessionID string) (Draft, error) {
	return s.withDraft(ctx, sessionID, func(*Draft) error { return nil })
}

// Edit moves edit mode to field and, when value is given, sets it.
func (s *Service) Edit(ctx context.Context, sessionID, field string, value *string) (Draft, error) {
	return s.withDraft(ctx, sessionID, func(d *Draft) error {
		if err := d.BeginEdit(field); err != nil {
			return err
		}
		if value == nil {
			return nil
		}
		return d.SetText(field, *value)
	})
}

// UpdateHours toggles a day and then applies new times, so enabling and retiming in one call works.
func (s *Service) UpdateHours(ctx context.Context, sessionID, day string, upd *HoursUpdate) (Draft, error) {
	if err := s.validator.Validate(upd); err != nil {
		return Draft{}, err
	}
	return s.withDraft(ctx, sessionID, func(d *Draft) error {
		if upd.Enabled != nil {
			if err := d.Toggle(day, *upd.Enabled); err != nil {
				return err
			}
		}
		if upd.From == nil && upd.To == nil {
			return nil
		}
		row, err := d.row(day)
		if err != nil {
			return err
		}
		from, to := row.From, row.To
		if upd.From != nil {
			from = *upd.From
		}
		if upd.To != nil {
			to = *upd.To
		}
		return d.SetHours(day, from, to)
	})
}

// SaveDraft persists the session's draft and leaves edit mode.
func (s *Service) SaveDraft(ctx context.Context, sessionID string) (Draft, error) {
	return s.withDraft(ctx, sessionID, func(d *Draft) error {
		if err := s.Save(ctx, d.Settings); err != nil {
			return err
		}
		d.Commit()
		return nil
	})
}

// Replace saves settings as given and resets the session's draft to them.
func (s *Service) Replace(ctx context.Context, sessionID string, settings model.ClinicSettings) (Draft, error) {
	return s.withDraft(ctx, sessionID, func(d *Draft) error {
		if err := s.Save(ctx, settings); err != nil {
			return err
		}
		*d = *NewDraft(settings)
		return nil
	})
}

// Forget drops the session's draft.
func (s *Service) Forget(sessionID string) {
	s.drafts.Delete(sessionID)
}
