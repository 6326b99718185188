package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	"github.com/jwalitptl/dental-console/pkg/auth"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/security"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

func TestAppointmentStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	s := NewAppointmentStore(SampleAppointments(today))

	created, err := s.Create(ctx, &model.CreateAppointmentRequest{
		PatientName:     "Layla Ahmad",
		PhoneNumber:     "0783334444",
		AppointmentDate: "2024-01-10",
		AppointmentTime: "2:00 PM",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, model.AppointmentStatusUpcoming, created.Status)

	confirmed, err := s.Confirm(ctx, 1)
	require.NoError(t, err)
	assert.True(t, confirmed.IsCompleted())

	// a second confirm is accepted
	_, err = s.Confirm(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, 2))
	assert.ErrorIs(t, s.Delete(ctx, 2), apperrors.NotFoundError)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// IDs never reuse a deleted slot
	next, err := s.Create(ctx, &model.CreateAppointmentRequest{PatientName: "X", PhoneNumber: "1", AppointmentDate: "2024-01-11", AppointmentTime: "9:00 AM"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), next.ID)
}

func TestAppointmentStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewAppointmentStore(SampleAppointments(time.Now()))

	all, _ := s.List(ctx)
	all[0].Status = model.AppointmentStatusCompleted

	again, _ := s.List(ctx)
	assert.Equal(t, model.AppointmentStatusUpcoming, again[0].Status)
}

func TestPatientStore_AddPayment(t *testing.T) {
	ctx := context.Background()
	s := NewPatientStore(SamplePatients())
	fixed := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	updated, err := s.AddPayment(ctx, 3, &model.CreatePaymentRequest{Amount: 700, Notes: "Final"})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, updated.PaidAmount)
	assert.Zero(t, updated.RemainingAmount)
	assert.False(t, updated.HasRemainingPayment)
	assert.Equal(t, int64(2), updated.PaymentHistory[0].ID)
	assert.Equal(t, fixed, updated.PaymentHistory[0].Date)

	_, err = s.AddPayment(ctx, 3, &model.CreatePaymentRequest{Amount: 1})
	assert.ErrorIs(t, err, model.ErrPaymentExceeds)

	_, err = s.AddPayment(ctx, 99, &model.CreatePaymentRequest{Amount: 1})
	assert.ErrorIs(t, err, apperrors.NotFoundError)
}

func TestPatientStore_Create(t *testing.T) {
	ctx := context.Background()
	s := NewPatientStore(SamplePatients())

	p, err := s.Create(ctx, &model.CreatePatientRequest{Name: "Nour", Phone: "0790000000", TotalAmount: 300})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, 300.0, p.RemainingAmount)

	all, _ := s.List(ctx)
	assert.Len(t, all, 7)
	assert.Equal(t, 200.0, all[0].RemainingAmount, "seed ledgers are normalized")
}

func TestAuthenticator_Login(t *testing.T) {
	jwtSvc, err := auth.NewJWTService("secret", time.Hour)
	require.NoError(t, err)
	credentials, err := security.NewCredentials(bcrypt.MinCost)
	require.NoError(t, err)
	a, err := NewAuthenticator(credentials, jwtSvc, validator.New(), []Account{
		{Name: "Dr. Lina", Email: "lina@clinic.com", Password: "secret1", Role: "dentist"},
	})
	require.NoError(t, err)

	res, err := a.Login(context.Background(), &model.LoginRequest{Email: "LINA@clinic.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Dr. Lina", res.User.Name)

	claims, err := jwtSvc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "lina@clinic.com", claims.Email)

	_, err = a.Login(context.Background(), &model.LoginRequest{Email: "lina@clinic.com", Password: "wrong-pass"})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid email or password", appErr.Message)
}

func TestStores_RequireToken(t *testing.T) {
	jwtSvc, err := auth.NewJWTService("secret", time.Hour)
	require.NoError(t, err)
	token, err := jwtSvc.GenerateAccessToken("1", "lina@clinic.com", "dentist")
	require.NoError(t, err)

	apts := NewAppointmentStore(SampleAppointments(time.Now()), RequireToken(jwtSvc))
	patients := NewPatientStore(SamplePatients(), RequireToken(jwtSvc))

	_, err = apts.List(context.Background())
	assert.ErrorIs(t, err, model.ErrInvalidToken)
	assert.ErrorIs(t, err, apperrors.BackendError)

	forged := repository.WithAccessToken(context.Background(), "not-a-jwt")
	_, err = patients.List(forged)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
	assert.ErrorIs(t, apts.Delete(forged, 1), model.ErrInvalidToken)

	ctx := repository.WithAccessToken(context.Background(), token)
	all, err := apts.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
	_, err = patients.AddPayment(ctx, 1, &model.CreatePaymentRequest{Amount: 50})
	require.NoError(t, err)
}

func TestNewAuthenticator_RejectsUnusableDemoUser(t *testing.T) {
	jwtSvc, err := auth.NewJWTService("secret", time.Hour)
	require.NoError(t, err)
	credentials, err := security.NewCredentials(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = NewAuthenticator(credentials, jwtSvc, validator.New(), []Account{
		{Name: "Dr. Omar", Email: "omar@clinic.com", Password: "12345"},
	})
	assert.ErrorIs(t, err, apperrors.ValidationError)
	assert.Zero(t, credentials.Len())
}
