package dto

import "github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"

// RegisterStudentRequest registers the caller as a student.
type RegisterStudentRequest struct {
	FirstName        string   `json:"firstName" validate:"required"`
	LastName         string   `json:"lastName" validate:"required"`
	PreferredStyles  []string `json:"preferredStyles" validate:"required,min=1,dive,oneof=freestyle breaststroke butterfly backstroke"`
	LessonPreference string   `json:"lessonPreference" validate:"required,oneof=private group both_prefer_private both_prefer_group"`
}

// WorkingHour is one weekly working window of an instructor.
type WorkingHour struct {
	Day   string `json:"day" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// Window converts the working hour into a day window.
func (w WorkingHour) Window() timeslot.DayWindow {
	return timeslot.DayWindow{Day: w.Day, Start: w.Start, End: w.End}
}

// RegisterInstructorRequest registers the caller as an instructor.
type RegisterInstructorRequest struct {
	Name           string        `json:"name" validate:"required"`
	Expertise      []string      `json:"expertise" validate:"required,min=1,dive,oneof=freestyle breaststroke butterfly backstroke"`
	AvailableHours []WorkingHour `json:"availableHours" validate:"omitempty,dive"`
}

// UpdateStudentRequest edits the caller's student profile.
type UpdateStudentRequest struct {
	FirstName        string   `json:"firstName" validate:"omitempty"`
	LastName         string   `json:"lastName" validate:"omitempty"`
	PreferredStyles  []string `json:"preferredStyles" validate:"omitempty,dive,oneof=freestyle breaststroke butterfly backstroke"`
	LessonPreference string   `json:"lessonPreference" validate:"omitempty,oneof=private group both_prefer_private both_prefer_group"`
}

// UpdateInstructorRequest edits the caller's instructor profile.
type UpdateInstructorRequest struct {
	Name           string        `json:"name" validate:"omitempty"`
	Expertise      []string      `json:"expertise" validate:"omitempty,dive,oneof=freestyle breaststroke butterfly backstroke"`
	AvailableHours []WorkingHour `json:"availableHours" validate:"omitempty,dive"`
}
