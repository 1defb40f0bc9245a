package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// WorkScheduleRequest is one weekday of a technician's availability.
type WorkScheduleRequest struct {
	Weekday          string `json:"weekday" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	BeforeLunchStart string `json:"before_lunch_start" validate:"required"`
	BeforeLunchEnd   string `json:"before_lunch_end" validate:"required"`
	AfterLunchStart  string `json:"after_lunch_start" validate:"required"`
	AfterLunchEnd    string `json:"after_lunch_end" validate:"required"`
}

// CreateTechnicianRequest payload for POST /technicians.
type CreateTechnicianRequest struct {
	Name         string                `json:"name" validate:"required,max=120"`
	Email        string                `json:"email" validate:"required,email"`
	Password     string                `json:"password" validate:"required,min=6"`
	Availability []WorkScheduleRequest `json:"availability" validate:"dive"`
}

// ScheduleInputs converts the request schedules.
func (r CreateTechnicianRequest) ScheduleInputs() []domain.WorkScheduleInput {
	return scheduleInputs(r.Availability)
}

// UpdateTechnicianProfileRequest payload for PUT /technicians/:id. An empty
// password keeps the current one; availability is replaced as a whole.
type UpdateTechnicianProfileRequest struct {
	Name         string                `json:"name" validate:"required,max=120"`
	Email        string                `json:"email" validate:"required,email"`
	Password     string                `json:"password" validate:"omitempty,min=6"`
	Availability []WorkScheduleRequest `json:"availability" validate:"dive"`
}

func (r UpdateTechnicianProfileRequest) ScheduleInputs() []domain.WorkScheduleInput {
	return scheduleInputs(r.Availability)
}

func scheduleInputs(requests []WorkScheduleRequest) []domain.WorkScheduleInput {
	inputs := make([]domain.WorkScheduleInput, 0, len(requests))
	for _, schedule := range requests {
		inputs = append(inputs, domain.WorkScheduleInput{
			Weekday:          schedule.Weekday,
			BeforeLunchStart: schedule.BeforeLunchStart,
			BeforeLunchEnd:   schedule.BeforeLunchEnd,
			AfterLunchStart:  schedule.AfterLunchStart,
			AfterLunchEnd:    schedule.AfterLunchEnd,
		})
	}
	return inputs
}

// WorkScheduleResponse renders ranges as HH:MM.
type WorkScheduleResponse struct {
	ID               string `json:"id"`
	Weekday          string `json:"weekday"`
	BeforeLunchStart string `json:"before_lunch_start"`
	BeforeLunchEnd   string `json:"before_lunch_end"`
	AfterLunchStart  string `json:"after_lunch_start"`
	AfterLunchEnd    string `json:"after_lunch_end"`
}

// TechnicianResponse is the public view of a technician.
type TechnicianResponse struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Email              string                 `json:"email"`
	MustUpdatePassword bool                   `json:"must_update_password"`
	Availability       []WorkScheduleResponse `json:"availability"`
	CreatedAt          time.Time              `json:"created_at"`
	DeletedAt          *time.Time             `json:"deleted_at,omitempty"`
}

// NewTechnicianResponse maps the domain technician.
func NewTechnicianResponse(technician *domain.Technician) TechnicianResponse {
	schedules := make([]WorkScheduleResponse, 0, len(technician.Availability))
	for _, schedule := range technician.Availability {
		schedules = append(schedules, WorkScheduleResponse{
			ID:               schedule.ID,
			Weekday:          schedule.Weekday.String(),
			BeforeLunchStart: schedule.BeforeLunch.Start().String(),
			BeforeLunchEnd:   schedule.BeforeLunch.End().String(),
			AfterLunchStart:  schedule.AfterLunch.Start().String(),
			AfterLunchEnd:    schedule.AfterLunch.End().String(),
		})
	}
	return TechnicianResponse{
		ID:                 technician.ID,
		Name:               technician.Name,
		Email:              technician.Email.String(),
		MustUpdatePassword: technician.MustUpdatePassword,
		Availability:       schedules,
		CreatedAt:          technician.CreatedAt,
		DeletedAt:          technician.DeletedAt,
	}
}
