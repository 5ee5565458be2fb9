package models

import (
	"encoding/json"
	"time"
)

// LessonType is either a private or a group lesson.
type LessonType string

const (
	LessonPrivate LessonType = "private"
	LessonGroup   LessonType = "group"
)

// RequestStatus is the approval state of a lesson request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Lesson is a scheduled lesson. Instructor and Students are kept raw since
// the lesson service returns either ids or populated documents.
type Lesson struct {
	ID         string          `json:"_id"`
	Style      string          `json:"style"`
	Type       LessonType      `json:"type"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    time.Time       `json:"endTime"`
	Instructor json.RawMessage `json:"instructor,omitempty"`
	Students   json.RawMessage `json:"students,omitempty"`
	Editable   bool            `json:"editable,omitempty"`
	Deletable  bool            `json:"deletable,omitempty"`
	Assignable bool            `json:"assignable,omitempty"`
	Cancelable bool            `json:"cancelable,omitempty"`
}

// InstructorName returns the populated instructor name, if any.
func (l Lesson) InstructorName() string {
	var probe struct {
		Name string `json:"name"`
	}
	if len(l.Instructor) == 0 || json.Unmarshal(l.Instructor, &probe) != nil {
		return ""
	}
	return probe.Name
}

// StudentCount returns how many students are attached to the lesson.
func (l Lesson) StudentCount() int {
	var items []json.RawMessage
	if len(l.Students) == 0 || json.Unmarshal(l.Students, &items) != nil {
		return 0
	}
	return len(items)
}

// DayLessons groups the lessons of one day.
type DayLessons struct {
	Date     string   `json:"date"`
	Editable bool     `json:"editable,omitempty"`
	Lessons  []Lesson `json:"lessons"`
}

// WeeklyLessons is keyed by English weekday name.
type WeeklyLessons map[string]DayLessons

// Weekdays in calendar order, Sunday first.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// LessonRequest is a student's request for a lesson.
type LessonRequest struct {
	ID         string          `json:"_id"`
	Instructor json.RawMessage `json:"instructor,omitempty"`
	Students   json.RawMessage `json:"students,omitempty"`
	Style      string          `json:"style"`
	Type       LessonType      `json:"type"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    time.Time       `json:"endTime"`
	Status     RequestStatus   `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	CanApprove bool            `json:"canApprove,omitempty"`
}

// LessonRequestList wraps the lesson request search result.
type LessonRequestList struct {
	LessonRequests []LessonRequest `json:"lessonRequests"`
}
