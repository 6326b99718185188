package patient

import (
	"strings"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/service/appointment"
)

// Empty-state messages for the patient list.
const (
	EmptyNoMatch = "No patients found matching your search."
	EmptyNone    = "No patients yet."
)

// Search keeps patients whose name contains q (case-insensitive) or whose phone contains q
// verbatim. An empty query keeps everyone.
func Search(patients []model.Patient, q string) []model.Patient {
	out := make([]model.Patient, 0, len(patients))
	if q == "" {
		return append(out, patients...)
	}
	lower := strings.ToLower(q)
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Name), lower) || strings.Contains(p.Phone, q) {
			out = append(out, p)
		}
	}
	return out
}

// Summarize counts patients and those still owing.
func Summarize(patients []model.Patient) model.PatientStats {
	stats := model.PatientStats{TotalPatients: len(patients)}
	for _, p := range patients {
		if p.HasRemainingPayment {
			stats.WithRemaining++
		}
	}
	stats.RemainingPercentage = appointment.Percent(stats.WithRemaining, stats.TotalPatients)
	return stats
}

// EmptyState picks the message shown when filtered is empty.
func EmptyState(all, filtered []model.Patient) string {
	switch {
	case len(filtered) > 0:
		return ""
	case len(all) == 0:
		return EmptyNone
	default:
		return EmptyNoMatch
	}
}
