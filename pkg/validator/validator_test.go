package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-console/internal/model"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperrors.ErrValidation, appErr.Code)
	return appErr.Fields
}

func TestValidate_Login(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		req  model.LoginRequest
		want map[string]string
	}{
		{
			name: "empty",
			req:  model.LoginRequest{},
			want: map[string]string{"email": "Email is required", "password": "Password is required"},
		},
		{
			name: "no domain dot",
			req:  model.LoginRequest{Email: "doctor@clinic", Password: "secret1"},
			want: map[string]string{"email": "Email is invalid"},
		},
		{
			name: "short password",
			req:  model.LoginRequest{Email: "doctor@clinic.com", Password: "12345"},
			want: map[string]string{"password": "Password must be at least 6 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldsOf(t, v.Validate(&tt.req)))
		})
	}

	assert.NoError(t, v.Validate(&model.LoginRequest{Email: "doctor@clinic.com", Password: "123456"}))
}

func TestValidate_Appointment(t *testing.T) {
	v := New()

	err := v.Validate(&model.CreateAppointmentRequest{
		PatientName:     "Ahmed Ali",
		PhoneNumber:     "0791234567",
		AppointmentDate: "2024-13-01",
		AppointmentTime: "25:00",
	})
	fields := fieldsOf(t, err)
	assert.Equal(t, "Date is invalid", fields["appointmentDate"])
	assert.Equal(t, "Time is invalid", fields["appointmentTime"])

	assert.NoError(t, v.Validate(&model.CreateAppointmentRequest{
		PatientName:     "Ahmed Ali",
		PhoneNumber:     "0791234567",
		AppointmentDate: "2024-01-10",
		AppointmentTime: "2:00 PM",
	}))
}

func TestValidate_Settings(t *testing.T) {
	v := New()

	s := model.DefaultClinicSettings()
	require.NoError(t, v.Validate(&s))

	s.WorkingHours[2].From = "9am"
	fields := fieldsOf(t, v.Validate(&s))
	assert.Contains(t, fields, "workingHours[2].from")

	s = model.DefaultClinicSettings()
	for i := range s.WorkingHours {
		s.WorkingHours[i].Day = "Sunday"
	}
	fields = fieldsOf(t, v.Validate(&s))
	assert.Equal(t, "WorkingHours must list each day of the week once", fields["workingHours"])

	s = model.DefaultClinicSettings()
	s.WorkingHours[0], s.WorkingHours[6] = s.WorkingHours[6], s.WorkingHours[0]
	assert.NoError(t, v.Validate(&s), "order does not matter")

	s = model.DefaultClinicSettings()
	s.WorkingHours = s.WorkingHours[:6]
	fields = fieldsOf(t, v.Validate(&s))
	assert.Equal(t, "WorkingHours must have 7 entries", fields["workingHours"])
}

func TestValidate_Payment(t *testing.T) {
	v := New()

	fields := fieldsOf(t, v.Validate(&model.CreatePaymentRequest{Amount: 0}))
	assert.Equal(t, "Amount must be greater than 0", fields["amount"])
}
