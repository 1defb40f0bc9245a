package domain

// WorkSchedule is a technician's working hours for one weekday, split by lunch.
type WorkSchedule struct {
	Entity
	TechnicianID string
	Weekday      Weekday
	BeforeLunch  TimeRange
	AfterLunch   TimeRange
}

// WorkScheduleInput is the raw, string based form of a WorkSchedule.
type WorkScheduleInput struct {
	Weekday          string
	BeforeLunchStart string
	BeforeLunchEnd   string
	AfterLunchStart  string
	AfterLunchEnd    string
}

// NewWorkSchedule validates every part of input and returns the first failure.
func NewWorkSchedule(id, technicianID string, input WorkScheduleInput) (WorkSchedule, error) {
	day, err := ParseWeekday(input.Weekday)
	if err != nil {
		return WorkSchedule{}, err
	}
	beforeLunch, err := ParseTimeRange(input.BeforeLunchStart, input.BeforeLunchEnd)
	if err != nil {
		return WorkSchedule{}, err
	}
	afterLunch, err := ParseTimeRange(input.AfterLunchStart, input.AfterLunchEnd)
	if err != nil {
		return WorkSchedule{}, err
	}
	return WorkSchedule{
		Entity:       newEntity(id),
		TechnicianID: technicianID,
		Weekday:      day,
		BeforeLunch:  beforeLunch,
		AfterLunch:   afterLunch,
	}, nil
}

// BuildWorkSchedules converts a batch of inputs, failing on the first invalid one.
func BuildWorkSchedules(technicianID string, inputs []WorkScheduleInput) ([]WorkSchedule, error) {
	schedules := make([]WorkSchedule, 0, len(inputs))
	for _, input := range inputs {
		schedule, err := NewWorkSchedule("", technicianID, input)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// Covers reports whether the schedule is for day and at falls within either
// working range.
func (w WorkSchedule) Covers(day Weekday, at TimeOfDay) bool {
	if w.Weekday != day {
		return false
	}
	return w.BeforeLunch.Contains(at) || w.AfterLunch.Contains(at)
}
