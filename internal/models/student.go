package models

// LessonPreference values accepted by the lesson service.
const (
	PreferencePrivate           = "private"
	PreferenceGroup             = "group"
	PreferenceBothPreferPrivate = "both_prefer_private"
	PreferenceBothPreferGroup   = "both_prefer_group"
)

// Student is a student profile.
type Student struct {
	ID               string   `json:"_id"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	PreferredStyles  []string `json:"preferredStyles"`
	LessonPreference string   `json:"lessonPreference"`
}

// MatchedStudent is a student compatible with a lesson style and type.
type MatchedStudent struct {
	StudentID        string `json:"studentId"`
	StudentName      string `json:"studentName"`
	LessonPreference string `json:"lessonPreference"`
}
