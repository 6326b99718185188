package repository

import (
	"context"

	"github.com/jwalitptl/dental-console/internal/model"
)

// All store interfaces in one file. The backend is the only identifier authority: stores
// never accept caller-chosen IDs.
type (
	// AppointmentStore reads and mutates the appointment collection.
	AppointmentStore interface {
		List(ctx context.Context) ([]model.Appointment, error)
		Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
		Confirm(ctx context.Context, id int64) (*model.Appointment, error)
		Delete(ctx context.Context, id int64) error
	}

	// PatientStore reads patients and mutates ledgers.
	PatientStore interface {
		List(ctx context.Context) ([]model.Patient, error)
		Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
		AddPayment(ctx context.Context, patientID int64, req *model.CreatePaymentRequest) (*model.Patient, error)
	}

	// Authenticator exchanges credentials for an access token and user record.
	Authenticator interface {
		Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error)
	}
)

type accessTokenKey struct{}

// WithAccessToken attaches the session's bearer token for the transport to send.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken returns the token attached by WithAccessToken, or "".
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}
