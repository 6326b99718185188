package settings

import (
	"github.com/jwalitptl/dental-console/internal/model"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
)

// Free-text fields that can be put in edit mode.
const (
	FieldClinicName      = "clinicName"
	FieldSpecialties     = "specialties"
	FieldDoctorEducation = "doctorEducation"
)

// Draft is the live editing state of the settings panel. At most one text field is in edit
// mode; switching fields keeps every value already typed.
type Draft struct {
	Settings model.ClinicSettings `json:"settings"`
	Editing  string               `json:"editing,omitempty"`
}

func NewDraft(s model.ClinicSettings) *Draft {
	return &Draft{Settings: Clone(s)}
}

func (d *Draft) clone() Draft {
	return Draft{Settings: Clone(d.Settings), Editing: d.Editing}
}

func (d *Draft) text(field string) *string {
	switch field {
	case FieldClinicName:
		return &d.Settings.ClinicInfo.ClinicName
	case FieldSpecialties:
		return &d.Settings.ClinicInfo.Specialties
	case FieldDoctorEducation:
		return &d.Settings.ClinicInfo.DoctorEducation
	}
	return nil
}

// BeginEdit puts field in edit mode, taking it away from whichever field had it.
func (d *Draft) BeginEdit(field string) error {
	if d.text(field) == nil {
		return apperrors.NewBadRequest("unknown settings field "+field, nil)
	}
	d.Editing = field
	return nil
}

// SetText changes the field currently in edit mode.
func (d *Draft) SetText(field, value string) error {
	dst := d.text(field)
	if dst == nil {
		return apperrors.NewBadRequest("unknown settings field "+field, nil)
	}
	if d.Editing != field {
		return apperrors.Conflict(field + " is not being edited")
	}
	*dst = value
	return nil
}

func (d *Draft) row(day string) (*model.WorkingHours, error) {
	i := dayIndex(d.Settings.WorkingHours, day)
	if i < 0 {
		return nil, apperrors.NotFound("working day "+day, nil)
	}
	return &d.Settings.WorkingHours[i], nil
}

// SetHours changes a day's opening times. Disabled days keep their stored times untouched.
func (d *Draft) SetHours(day, from, to string) error {
	row, err := d.row(day)
	if err != nil {
		return err
	}
	if !row.Enabled {
		return apperrors.Conflict(day + " is disabled")
	}
	row.From, row.To = from, to
	return nil
}

func (d *Draft) Toggle(day string, enabled bool) error {
	row, err := d.row(day)
	if err != nil {
		return err
	}
	row.Enabled = enabled
	return nil
}

// Commit leaves edit mode.
func (d *Draft) Commit() {
	d.Editing = ""
}
