package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
)

var _ repository.PatientStore = (*PatientStore)(nil)

type PatientStore struct {
	client *Client
}

func NewPatientStore(c *Client) *PatientStore {
	return &PatientStore{client: c}
}

func (s *PatientStore) List(ctx context.Context) ([]model.Patient, error) {
	var records []patientRecord
	if err := s.client.doJSON(ctx, "list_patients", http.MethodGet, "/api/patients", nil, &records); err != nil {
		return nil, err
	}
	out := make([]model.Patient, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *PatientStore) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	body := patientPayload{Name: req.Name, Phone: req.Phone, TotalAmount: req.TotalAmount}
	var record patientRecord
	if err := s.client.doJSON(ctx, "create_patient", http.MethodPost, "/api/patients", body, &record); err != nil {
		return nil, err
	}
	p := record.toModel()
	return &p, nil
}

func (s *PatientStore) AddPayment(ctx context.Context, patientID int64, req *model.CreatePaymentRequest) (*model.Patient, error) {
	path := fmt.Sprintf("/api/patients/%d/payments", patientID)
	var record patientRecord
	body := paymentPayload{Amount: req.Amount, Notes: req.Notes}
	if err := s.client.doJSON(ctx, "add_payment", http.MethodPost, path, body, &record); err != nil {
		return nil, err
	}
	p := record.toModel()
	return &p, nil
}
