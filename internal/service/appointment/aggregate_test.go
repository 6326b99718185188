package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/dental-console/internal/model"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"9:00 AM", 540},
		{"09:00 AM", 540},
		{"11:30 AM", 690},
		{"2:00 PM", 840},
		{"2:00 pm", 840},
		{"12:00 PM", 720},
		{"12:15 AM", 15},
		{"12:00", 0},
		{"7:45", 465},
		{"", 0},
		{"noon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ClockMinutes(tt.in))
		})
	}
}

func TestSortByTime(t *testing.T) {
	apts := []model.Appointment{
		{ID: 1, AppointmentTime: "2:00 PM"},
		{ID: 2, AppointmentTime: "9:00 AM"},
		{ID: 3, AppointmentTime: "11:30 AM"},
		{ID: 4, AppointmentTime: "9:00 AM"},
	}
	SortByTime(apts)

	var got []int64
	for _, a := range apts {
		got = append(got, a.ID)
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, got)
}

func TestAggregate(t *testing.T) {
	all := []model.Appointment{
		{ID: 1, AppointmentDate: "2024-01-10", AppointmentTime: "2:00 PM", Status: model.AppointmentStatusUpcoming},
		{ID: 2, AppointmentDate: "2024-01-10", AppointmentTime: "9:00 AM", Status: model.AppointmentStatusCompleted},
		{ID: 3, AppointmentDate: "2024-01-10", AppointmentTime: "11:30 AM", Status: model.AppointmentStatusUpcoming},
		{ID: 4, AppointmentDate: "2024-01-11", AppointmentTime: "8:00 AM", Status: model.AppointmentStatusUpcoming},
	}

	sum := Aggregate(all, "2024-01-10")
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.RemainingCount)
	assert.Equal(t, 1, sum.Completed)
	assert.Equal(t, 33, sum.Percentage)
	assert.Equal(t, sum.Total, sum.RemainingCount+sum.Completed)
	assert.Equal(t, int64(3), sum.Remaining[0].ID)
	assert.Equal(t, int64(1), sum.Remaining[1].ID)

	empty := Aggregate(all, "2024-02-01")
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Percentage)
	assert.NotNil(t, empty.Remaining)
}

func TestPercent_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 13, Percent(1, 8)) // 12.5
	assert.Equal(t, 100, Percent(4, 4))
	assert.Equal(t, 0, Percent(0, 0))
}
