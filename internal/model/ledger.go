package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNonPositivePayment = errors.New("payment amount must be greater than 0")
	ErrPaymentExceeds     = errors.New("payment amount exceeds remaining balance")
)

// NewPatient opens a ledger with nothing paid.
func NewPatient(id int64, req *CreatePatientRequest) Patient {
	p := Patient{
		ID:             id,
		Name:           req.Name,
		Phone:          req.Phone,
		TotalAmount:    req.TotalAmount,
		PaymentHistory: []Payment{},
	}
	p.Normalize()
	return p
}

// Cents converts an amount to whole minor units. Ledger arithmetic is done in cents so that
// sums like 0.1 + 0.2 settle exactly.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents is the inverse of Cents.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Normalize rounds total and paid to cents and recomputes the derived ledger fields.
func (p *Patient) Normalize() {
	total, paid := Cents(p.TotalAmount), Cents(p.PaidAmount)
	remaining := total - paid
	if remaining < 0 {
		remaining = 0
	}
	p.TotalAmount = FromCents(total)
	p.PaidAmount = FromCents(paid)
	p.RemainingAmount = FromCents(remaining)
	p.HasRemainingPayment = remaining > 0
	if p.PaymentHistory == nil {
		p.PaymentHistory = []Payment{}
	}
}

// NextPaymentID is one past the largest existing payment id, or 1 for an empty history.
func (p *Patient) NextPaymentID() int64 {
	var max int64
	for _, pay := range p.PaymentHistory {
		if pay.ID > max {
			max = pay.ID
		}
	}
	return max + 1
}

// CheckPayment enforces 0 < amount <= remaining against the current ledger, to the cent.
func (p *Patient) CheckPayment(amount float64) error {
	if !(amount > 0) || Cents(amount) <= 0 {
		return ErrNonPositivePayment
	}
	if Cents(amount) > Cents(p.RemainingAmount) {
		return fmt.Errorf("%w: %.2f > %.2f", ErrPaymentExceeds, amount, p.RemainingAmount)
	}
	return nil
}

// ApplyPayment records a payment and prepends it to the history.
func (p *Patient) ApplyPayment(amount float64, notes string, at time.Time) (Payment, error) {
	p.Normalize()
	if err := p.CheckPayment(amount); err != nil {
		return Payment{}, err
	}

	cents := Cents(amount)
	pay := Payment{
		ID:     p.NextPaymentID(),
		Amount: FromCents(cents),
		Date:   at,
		Notes:  notes,
	}
	p.PaidAmount = FromCents(Cents(p.PaidAmount) + cents)
	p.PaymentHistory = append([]Payment{pay}, p.PaymentHistory...)
	p.Normalize()
	return pay, nil
}
