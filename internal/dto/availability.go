package dto

import (
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	"github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"
)

// TimelineResponse is the 15-minute timeline of an instructor on one date.
type TimelineResponse struct {
	InstructorID string            `json:"instructor_id"`
	Date         string            `json:"date"`
	Day          string            `json:"day"`
	Slots        []timeslot.Slot   `json:"slots"`
	FreeHours    []string          `json:"free_hours"`
	FreeWindows  []timeslot.Window `json:"free_windows"`
}

// TimePickerResponse lists the selectable start/end times inside a window.
type TimePickerResponse struct {
	Times        []string `json:"times"`
	DefaultStart string   `json:"default_start,omitempty"`
	DefaultEnd   string   `json:"default_end,omitempty"`
}

// WeeklyAvailabilityRequest searches instructors' free time around a date.
type WeeklyAvailabilityRequest struct {
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	Styles        []string `json:"styles" validate:"omitempty,dive,oneof=freestyle breaststroke butterfly backstroke"`
	InstructorIDs []string `json:"instructorIds" validate:"omitempty,dive,required"`
}

// InstructorListResponse is one page of the instructor directory.
type InstructorListResponse struct {
	Instructors []models.Instructor `json:"instructors"`
}
