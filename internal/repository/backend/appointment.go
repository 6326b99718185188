package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
)

var _ repository.AppointmentStore = (*AppointmentStore)(nil)

type AppointmentStore struct {
	client *Client
}

func NewAppointmentStore(c *Client) *AppointmentStore {
	return &AppointmentStore{client: c}
}

func (s *AppointmentStore) List(ctx context.Context) ([]model.Appointment, error) {
	var records []appointmentRecord
	if err := s.client.doJSON(ctx, "list_appointments", http.MethodGet, "/api/appointments", nil, &records); err != nil {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *AppointmentStore) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	body := appointmentPayload{
		Patient:   req.PatientName,
		Phone:     req.PhoneNumber,
		Date:      req.AppointmentDate,
		Time:      req.AppointmentTime,
		Procedure: req.Procedure,
	}
	var record appointmentRecord
	if err := s.client.doJSON(ctx, "create_appointment", http.MethodPost, "/api/appointments", body, &record); err != nil {
		return nil, err
	}
	apt := record.toModel()
	return &apt, nil
}

func (s *AppointmentStore) Confirm(ctx context.Context, id int64) (*model.Appointment, error) {
	path := fmt.Sprintf("/api/appointments/%d?status=Completed", id)
	var record appointmentRecord
	if err := s.client.doJSON(ctx, "confirm_appointment", http.MethodPatch, path, nil, &record); err != nil {
		return nil, err
	}
	apt := record.toModel()
	return &apt, nil
}

func (s *AppointmentStore) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/appointments/%d", id)
	return s.client.doJSON(ctx, "delete_appointment", http.MethodDelete, path, nil, nil)
}
