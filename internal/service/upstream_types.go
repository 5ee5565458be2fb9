package service

import "time"

// LessonPayload is the lesson document accepted by POST /api/lessons.
type LessonPayload struct {
	Instructor string    `json:"instructor"`
	Students   []string  `json:"students"`
	Style      string    `json:"style"`
	Type       string    `json:"type"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
}

// LessonRequestPayload is the request document accepted by POST /api/lesson-requests.
type LessonRequestPayload struct {
	Instructor string    `json:"instructor"`
	Students   []string  `json:"students"`
	Style      string    `json:"style"`
	Type       string    `json:"type"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`
}

// LessonRequestFilter selects lesson requests of some students in a time window.
type LessonRequestFilter struct {
	Students  []string  `json:"students"`
	Status    []string  `json:"status,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// WeeklyAvailabilityQuery searches instructors' free hours over a week.
type WeeklyAvailabilityQuery struct {
	Date          time.Time `json:"date"`
	Styles        []string  `json:"styles,omitempty"`
	InstructorIDs []string  `json:"instructorIds,omitempty"`
}

// StudentWeeklyQuery selects the lessons of a student over a week.
type StudentWeeklyQuery struct {
	Date          time.Time `json:"date"`
	StudentID     string    `json:"studentId"`
	InstructorIDs []string  `json:"instructorId,omitempty"`
}
