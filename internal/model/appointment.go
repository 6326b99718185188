package model

type AppointmentStatus string

const (
	AppointmentStatusUpcoming  AppointmentStatus = "upcoming"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment is the console's view of a backend appointment record.
// AppointmentDate is a calendar day (YYYY-MM-DD), AppointmentTime a 12-hour wall clock ("2:00 PM").
type Appointment struct {
	ID              int64             `json:"id"`
	PatientName     string            `json:"patientName"`
	PhoneNumber     string            `json:"phoneNumber"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Procedure       string            `json:"procedure,omitempty"`
	Status          AppointmentStatus `json:"status"`
}

func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

type CreateAppointmentRequest struct {
	PatientName     string `json:"patientName" validate:"required" label:"Patient name"`
	PhoneNumber     string `json:"phoneNumber" validate:"required" label:"Phone number"`
	AppointmentDate string `json:"appointmentDate" validate:"required,isodate" label:"Date"`
	AppointmentTime string `json:"appointmentTime" validate:"required,clock12" label:"Time"`
	Procedure       string `json:"procedure" validate:"max=200" label:"Procedure"`
}

// AppointmentStats are the per-date counters shown above the table.
type AppointmentStats struct {
	Total                int `json:"total"`
	Remaining            int `json:"remaining"`
	Completed            int `json:"completed"`
	CompletionPercentage int `json:"completionPercentage"`
}

// AppointmentsView is the payload rendered by the appointments panel.
type AppointmentsView struct {
	Date         string           `json:"date"`
	IsToday      bool             `json:"isToday"`
	Label        string           `json:"label"`
	Stats        AppointmentStats `json:"stats"`
	Appointments []Appointment    `json:"appointments"`
}
