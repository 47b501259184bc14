package model

import "gorm.io/gorm"

// AttendanceStatus is a volunteer's turnout on one tournament day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceStatuses in display order.
var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceLate, AttendanceAbsent}

// IsValid reports whether s is a known attendance status.
func (s AttendanceStatus) IsValid() bool {
	for _, v := range AttendanceStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// AttendanceRecord is one volunteer's turnout for one day, stored in volunteer_attendance.
// Day is an ISO date; (submission_id, day) is unique so re-marking overwrites.
type AttendanceRecord struct {
	AttendanceID string           `gorm:"type:uuid;primaryKey"                                                      json:"attendance_id"`
	SubmissionID string           `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_submission_day"              json:"submission_id"`
	Day          string           `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_submission_day;index" json:"date"`
	Status       AttendanceStatus `gorm:"type:varchar(10);not null"                                                 json:"status"`
	Notes        string           `gorm:"type:text;not null;default:''"                                             json:"notes,omitempty"`
	RecordedBy   string           `gorm:"type:varchar(64);not null"                                                 json:"recorded_by"`
	BaseModel
}

// TableName table name
func (AttendanceRecord) TableName() string { return "volunteer_attendance" }

// BeforeCreate assigns the id.
func (a *AttendanceRecord) BeforeCreate(*gorm.DB) error {
	if a.AttendanceID == "" {
		a.AttendanceID = NewID()
	}
	return nil
}
