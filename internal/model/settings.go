package model

type ClinicInfo struct {
	ClinicName      string `json:"clinicName" validate:"max=200"`
	Specialties     string `json:"specialties" validate:"max=2000"`
	DoctorEducation string `json:"doctorEducation" validate:"max=2000"`
}

type WorkingHours struct {
	Day     string `json:"day" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Enabled bool   `json:"enabled"`
	From    string `json:"from" validate:"required,clock24"`
	To      string `json:"to" validate:"required,clock24"`
}

// ClinicSettings is persisted as one JSON blob under a single storage key.
type ClinicSettings struct {
	ClinicInfo     ClinicInfo     `json:"clinicInfo"`
	WorkingHours   []WorkingHours `json:"workingHours" validate:"len=7,weekdays,dive"`
	ChatbotEnabled bool           `json:"chatbotEnabled"`
	ClinicOpen     bool           `json:"clinicOpen"`
}

// Weekdays in display order.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DefaultClinicSettings returns the settings shown when nothing has been saved yet.
func DefaultClinicSettings() ClinicSettings {
	hours := make([]WorkingHours, 0, len(Weekdays))
	for _, day := range Weekdays {
		wh := WorkingHours{Day: day, Enabled: true, From: "09:00", To: "17:00"}
		if day == "Friday" || day == "Saturday" {
			wh.Enabled = false
			wh.To = "13:00"
		}
		hours = append(hours, wh)
	}
	return ClinicSettings{
		WorkingHours:   hours,
		ChatbotEnabled: true,
		ClinicOpen:     true,
	}
}
