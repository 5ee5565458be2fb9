package dto

// CreateLessonRequest schedules a lesson for the calling instructor.
type CreateLessonRequest struct {
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string   `json:"start_time" validate:"required"`
	EndTime   string   `json:"end_time" validate:"required"`
	Style     string   `json:"style" validate:"required,oneof=freestyle breaststroke butterfly backstroke"`
	Type      string   `json:"type" validate:"required,oneof=private group"`
	Students  []string `json:"students"`
}

// CreateLessonRequestRequest asks an instructor for a lesson on behalf of the calling student.
type CreateLessonRequestRequest struct {
	InstructorID string   `json:"instructor_id" validate:"required"`
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string   `json:"start_time" validate:"required"`
	EndTime      string   `json:"end_time" validate:"required"`
	Style        string   `json:"style" validate:"required,oneof=freestyle breaststroke butterfly backstroke"`
	Type         string   `json:"type" validate:"required,oneof=private group"`
	Students     []string `json:"students"`
}

// LessonExportRow is a flattened lesson used by schedule exports.
type LessonExportRow struct {
	Day        string
	Date       string
	Start      string
	End        string
	Style      string
	Type       string
	Instructor string
	Students   int
}
