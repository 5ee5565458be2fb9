package models

import "github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"

// Swimming styles offered by the pool.
var SwimmingStyles = []string{"freestyle", "breaststroke", "butterfly", "backstroke"}

// Instructor is an instructor profile with weekly working hours.
type Instructor struct {
	ID             string               `json:"_id"`
	Name           string               `json:"name"`
	AvailableHours []timeslot.DayWindow `json:"availableHours"`
	Expertise      []string             `json:"expertise"`
}

// InstructorPage is one page of the instructor directory.
type InstructorPage struct {
	Instructors []Instructor `json:"instructors"`
	Total       int          `json:"total"`
}

// AvailableHoursResponse lists the free windows of an instructor on a date.
type AvailableHoursResponse struct {
	AvailableHours []timeslot.Window `json:"availableHours"`
}

// WeeklyAvailability is the free time of one instructor over a week.
type WeeklyAvailability struct {
	InstructorID   string            `json:"instructorId"`
	InstructorName string            `json:"instructorName"`
	WeeklyHours    []DayAvailability `json:"weeklyHours"`
}

// DayAvailability holds the free windows of one weekday.
type DayAvailability struct {
	Day            string            `json:"day"`
	AvailableHours []timeslot.Window `json:"availableHours"`
}

// WeeklyAvailabilityResponse wraps the weekly availability search result.
type WeeklyAvailabilityResponse struct {
	WeeklyAvailability []WeeklyAvailability `json:"weeklyAvailability"`
}
