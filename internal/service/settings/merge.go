package settings

import (
	"encoding/json"

	"github.com/jwalitptl/dental-console/internal/model"
)

// Clone deep-copies s so edits never alias the working-hours table.
func Clone(s model.ClinicSettings) model.ClinicSettings {
	out := s
	out.WorkingHours = append([]model.WorkingHours(nil), s.WorkingHours...)
	return out
}

// Merge overlays the keys present in raw onto base. Clinic info is merged field by field,
// working hours row by named day, and the toggles only when given as JSON booleans. Values of
// the wrong JSON type are ignored. Only a document that is not a JSON object is an error.
func Merge(base model.ClinicSettings, raw []byte) (model.ClinicSettings, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return base, err
	}
	out := Clone(base)

	if v, ok := top["clinicInfo"]; ok {
		var info map[string]json.RawMessage
		if json.Unmarshal(v, &info) == nil {
			mergeString(&out.ClinicInfo.ClinicName, info["clinicName"])
			mergeString(&out.ClinicInfo.Specialties, info["specialties"])
			mergeString(&out.ClinicInfo.DoctorEducation, info["doctorEducation"])
		}
	}

	if v, ok := top["workingHours"]; ok {
		var rows []map[string]json.RawMessage
		if json.Unmarshal(v, &rows) == nil {
			for _, row := range rows {
				var day string
				if json.Unmarshal(row["day"], &day) != nil {
					continue
				}
				i := dayIndex(out.WorkingHours, day)
				if i < 0 {
					continue
				}
				mergeBool(&out.WorkingHours[i].Enabled, row["enabled"])
				mergeString(&out.WorkingHours[i].From, row["from"])
				mergeString(&out.WorkingHours[i].To, row["to"])
			}
		}
	}

	mergeBool(&out.ChatbotEnabled, top["chatbotEnabled"])
	mergeBool(&out.ClinicOpen, top["clinicOpen"])
	return out, nil
}

func mergeString(dst *string, raw json.RawMessage) {
	if raw == nil {
		return
	}
	var s *string
	if json.Unmarshal(raw, &s) == nil && s != nil {
		*dst = *s
	}
}

func mergeBool(dst *bool, raw json.RawMessage) {
	if raw == nil {
		return
	}
	var b *bool
	if json.Unmarshal(raw, &b) == nil && b != nil {
		*dst = *b
	}
}

func dayIndex(hours []model.WorkingHours, day string) int {
	for i := range hours {
		if hours[i].Day == day {
			return i
		}
	}
	return -1
}
