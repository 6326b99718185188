package memory

import (
	"time"

	"github.com/jwalitptl/dental-console/internal/model"
)

// SampleAppointments returns the demo calendar: two visits today, one tomorrow.
func SampleAppointments(today time.Time) []model.Appointment {
	d0 := today.Format("2006-01-02")
	d1 := today.AddDate(0, 0, 1).Format("2006-01-02")
	return []model.Appointment{
		{ID: 1, PatientName: "Ahmed Ali", PhoneNumber: "0791234567", AppointmentDate: d0, AppointmentTime: "10:00 AM", Status: model.AppointmentStatusUpcoming},
		{ID: 2, PatientName: "Sara Mohammad", PhoneNumber: "0789876543", AppointmentDate: d0, AppointmentTime: "11:30 AM", Status: model.AppointmentStatusUpcoming},
		{ID: 3, PatientName: "Omar Hassan", PhoneNumber: "0775551234", AppointmentDate: d1, AppointmentTime: "09:00 AM", Status: model.AppointmentStatusUpcoming},
	}
}

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

// SamplePatients returns the demo ledger. Histories are most recent first.
func SamplePatients() []model.Patient {
	return []model.Patient{
		{ID: 1, Name: "Ahmed Ali", Phone: "0791234567", TotalAmount: 500, PaidAmount: 300, PaymentHistory: []model.Payment{
			{ID: 2, Amount: 150, Date: at("2024-01-15T14:20:00"), Notes: "Second payment"},
			{ID: 1, Amount: 150, Date: at("2024-01-10T10:30:00"), Notes: "Initial payment"},
		}},
		{ID: 2, Name: "Sara Mohammad", Phone: "0789876543", TotalAmount: 800, PaidAmount: 800, PaymentHistory: []model.Payment{
			{ID: 2, Amount: 400, Date: at("2024-01-20T11:45:00"), Notes: "Final payment"},
			{ID: 1, Amount: 400, Date: at("2024-01-05T09:15:00"), Notes: "First installment"},
		}},
		{ID: 3, Name: "Omar Hassan", Phone: "0775551234", TotalAmount: 1200, PaidAmount: 500, PaymentHistory: []model.Payment{
			{ID: 1, Amount: 500, Date: at("2024-01-08T13:00:00"), Notes: "Down payment"},
		}},
		{ID: 4, Name: "Fatima Ibrahim", Phone: "0798889999", TotalAmount: 600, PaidAmount: 600, PaymentHistory: []model.Payment{
			{ID: 1, Amount: 600, Date: at("2024-01-12T10:00:00"), Notes: "Full payment"},
		}},
		{ID: 5, Name: "Khalid Mahmoud", Phone: "0771112222", TotalAmount: 1000, PaidAmount: 400, PaymentHistory: []model.Payment{
			{ID: 2, Amount: 200, Date: at("2024-01-18T16:00:00")},
			{ID: 1, Amount: 200, Date: at("2024-01-03T15:30:00"), Notes: "Initial deposit"},
		}},
		{ID: 6, Name: "Layla Ahmad", Phone: "0783334444", TotalAmount: 450, PaidAmount: 450, PaymentHistory: []model.Payment{
			{ID: 1, Amount: 450, Date: at("2024-01-14T12:00:00"), Notes: "Complete payment"},
		}},
	}
}
