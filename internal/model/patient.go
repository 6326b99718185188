package model

import "time"

// Payment is an immutable ledger entry. IDs are unique per patient.
type Payment struct {
	ID     int64     `json:"id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes"`
}

// Patient carries the ledger: total, paid, derived remaining, and history (most recent first).
type Patient struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	TotalAmount         float64   `json:"totalAmount"`
	PaidAmount          float64   `json:"paidAmount"`
	RemainingAmount     float64   `json:"remainingAmount"`
	HasRemainingPayment bool      `json:"hasRemainingPayment"`
	PaymentHistory      []Payment `json:"paymentHistory"`
}

type CreatePatientRequest struct {
	Name        string  `json:"name" validate:"required" label:"Name"`
	Phone       string  `json:"phone" validate:"required" label:"Phone"`
	TotalAmount float64 `json:"totalAmount" validate:"gt=0" label:"Total amount"`
}

type CreatePaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Notes  string  `json:"notes" validate:"max=500" label:"Notes"`
}

type PatientStats struct {
	TotalPatients       int `json:"totalPatients"`
	WithRemaining       int `json:"withRemainingPayments"`
	RemainingPercentage int `json:"remainingPaymentsPercentage"`
}

// PatientsView is the payload rendered by the patients panel.
type PatientsView struct {
	Query      string       `json:"query"`
	Stats      PatientStats `json:"stats"`
	Patients   []Patient    `json:"patients"`
	EmptyState string       `json:"emptyState,omitempty"`
}
