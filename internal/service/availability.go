package service

import (
	"fmt"
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// AvailableTechnicians returns the technicians free to take a new ticket at
// now: not bound to any open ticket, and with a work schedule for now's
// weekday whose before-lunch or after-lunch range contains now's wall-clock
// time. The weekday and time are read in now's location.
func AvailableTechnicians(now time.Time, technicians []domain.Technician, openTickets []domain.Ticket) []domain.Technician {
	busy := make(map[string]struct{}, len(openTickets))
	for _, ticket := range openTickets {
		if ticket.Status == domain.TicketStatusOpen && ticket.TechnicianID != nil {
			busy[*ticket.TechnicianID] = struct{}{}
		}
	}

	day := domain.WeekdayOf(now)
	at := wallClock(now)

	available := make([]domain.Technician, 0, len(technicians))
	for _, technician := range technicians {
		if _, taken := busy[technician.ID]; taken {
			continue
		}
		if technician.WorksAt(day, at) {
			available = append(available, technician)
		}
	}
	return available
}

func wallClock(now time.Time) domain.TimeOfDay {
	at, err := domain.ParseTimeOfDay(now.Format("15:04"))
	if err != nil {
		panic(fmt.Sprintf("wall clock %s is not a time of day: %v", now.Format(time.RFC3339), err))
	}
	return at
}
