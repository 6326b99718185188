package backend

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/jwalitptl/dental-console/internal/model"
)

type appointmentRecord struct {
	ID          int64  `json:"id"`
	Patient     string `json:"patient"`
	PatientName string `json:"patient_name"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Procedure   string `json:"procedure"`
	Status      string `json:"status"`
}

type appointmentPayload struct {
	Patient   string `json:"patient"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Procedure string `json:"procedure,omitempty"`
}

func (r appointmentRecord) toModel() model.Appointment {
	name := r.Patient
	if name == "" {
		name = r.PatientName
	}
	return model.Appointment{
		ID:              r.ID,
		PatientName:     name,
		PhoneNumber:     r.Phone,
		AppointmentDate: r.Date,
		AppointmentTime: r.Time,
		Procedure:       r.Procedure,
		Status:          parseStatus(r.Status),
	}
}

// parseStatus maps backend statuses case-insensitively. Anything but "completed" is upcoming.
func parseStatus(s string) model.AppointmentStatus {
	if strings.EqualFold(strings.TrimSpace(s), "completed") {
		return model.AppointmentStatusCompleted
	}
	return model.AppointmentStatusUpcoming
}

type paymentRecord struct {
	ID        int64       `json:"id"`
	Amount    float64     `json:"amount"`
	CreatedAt backendTime `json:"created_at"`
	Notes     string      `json:"notes"`
}

type patientRecord struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	TotalAmount float64         `json:"total_amount"`
	PaidAmount  float64         `json:"paid_amount"`
	Payments    []paymentRecord `json:"payments"`
}

type patientPayload struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	TotalAmount float64 `json:"total_amount"`
}

type paymentPayload struct {
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes,omitempty"`
}

func (r patientRecord) toModel() model.Patient {
	p := model.Patient{
		ID:             r.ID,
		Name:           r.Name,
		Phone:          r.Phone,
		TotalAmount:    r.TotalAmount,
		PaidAmount:     r.PaidAmount,
		PaymentHistory: make([]model.Payment, 0, len(r.Payments)),
	}
	for _, pay := range r.Payments {
		p.PaymentHistory = append(p.PaymentHistory, model.Payment{
			ID:     pay.ID,
			Amount: pay.Amount,
			Date:   time.Time(pay.CreatedAt),
			Notes:  pay.Notes,
		})
	}
	p.Normalize()
	return p
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReply struct {
	Success     bool        `json:"success"`
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
	Detail      string      `json:"detail"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// backendTime accepts RFC 3339 stamps as well as naive local ones.
type backendTime time.Time

func (t *backendTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = backendTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = backendTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = backendTime(parsed)
			return nil
		}
	}
	// unparsable stamps are kept as zero rather than failing the whole list
	*t = backendTime{}
	return nil
}
