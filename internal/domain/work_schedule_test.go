package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

func mondaySchedule() domain.WorkScheduleInput {
	return domain.WorkScheduleInput{
		Weekday:          "Monday",
		BeforeLunchStart: "08:00",
		BeforeLunchEnd:   "12:00",
		AfterLunchStart:  "13:00",
		AfterLunchEnd:    "17:00",
	}
}

func mustTime(t *testing.T, value string) domain.TimeOfDay {
	t.Helper()
	parsed, err := domain.ParseTimeOfDay(value)
	require.NoError(t, err)
	return parsed
}

func TestWorkSchedule_Covers(t *testing.T) {
	schedule, err := domain.NewWorkSchedule("", "tech-1", mondaySchedule())
	require.NoError(t, err)
	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, "tech-1", schedule.TechnicianID)

	assert.True(t, schedule.Covers(domain.Monday, mustTime(t, "08:00")))
	assert.True(t, schedule.Covers(domain.Monday, mustTime(t, "12:00")))
	assert.True(t, schedule.Covers(domain.Monday, mustTime(t, "15:30")))
	assert.False(t, schedule.Covers(domain.Monday, mustTime(t, "12:30")))
	assert.False(t, schedule.Covers(domain.Monday, mustTime(t, "18:00")))
	assert.False(t, schedule.Covers(domain.Tuesday, mustTime(t, "09:00")))
}

func TestNewWorkSchedule_RejectsInvalidParts(t *testing.T) {
	cases := map[string]func(*domain.WorkScheduleInput){
		"weekday":        func(in *domain.WorkScheduleInput) { in.Weekday = "Funday" },
		"time format":    func(in *domain.WorkScheduleInput) { in.BeforeLunchStart = "8h" },
		"inverted range": func(in *domain.WorkScheduleInput) { in.AfterLunchStart = "18:00" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := mondaySchedule()
			mutate(&input)
			_, err := domain.NewWorkSchedule("", "tech-1", input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestBuildWorkSchedules_StopsOnFirstFailure(t *testing.T) {
	bad := mondaySchedule()
	bad.Weekday = "monday"

	schedules, err := domain.BuildWorkSchedules("tech-1", []domain.WorkScheduleInput{mondaySchedule(), bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Nil(t, schedules)

	schedules, err = domain.BuildWorkSchedules("tech-1", []domain.WorkScheduleInput{mondaySchedule()})
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
}

func TestTechnician_WorksAtAndSoftDelete(t *testing.T) {
	schedules, err := domain.BuildWorkSchedules("tech-1", []domain.WorkScheduleInput{mondaySchedule()})
	require.NoError(t, err)
	technician := &domain.Technician{Entity: domain.Entity{ID: "tech-1"}, Availability: schedules}

	assert.True(t, technician.WorksAt(domain.Monday, mustTime(t, "09:00")))
	assert.False(t, technician.WorksAt(domain.Sunday, mustTime(t, "09:00")))

	now := time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, technician.SoftDelete(now))
	assert.True(t, technician.IsDeleted())
	assert.ErrorIs(t, technician.SoftDelete(now), apperrors.ErrAlreadyDeleted)
}
