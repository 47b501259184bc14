package dto

// ── attendance DTOs ──

// MarkAttendanceRequest records one volunteer's turnout for a day
type MarkAttendanceRequest struct {
	SubmissionID string `json:"submission_id" binding:"required,uuid"`
	Date         string `json:"date"          binding:"required,datetime=2006-01-02"`
	Status       string `json:"status"        binding:"required,oneof=present late absent"`
	Notes        string `json:"notes"         binding:"omitempty,max=500"`
}

// AttendanceResponse a stored attendance record
type AttendanceResponse struct {
	ID           string `json:"attendance_id"`
	SubmissionID string `json:"submission_id"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
	RecordedBy   string `json:"recorded_by"`
	UpdatedAt    string `json:"updated_at"`
}

// AttendanceRosterEntry one eligible volunteer on the day sheet; Status is
// empty until someone marks them
type AttendanceRosterEntry struct {
	SubmissionID     string `json:"submission_id"`
	Name             string `json:"name"`
	Role             string `json:"role,omitempty"`
	SubmissionStatus string `json:"submission_status"`
	AssignedLocation string `json:"assigned_location,omitempty"`
	Status           string `json:"attendance_status,omitempty"`
	Notes            string `json:"notes,omitempty"`
	RecordedBy       string `json:"recorded_by,omitempty"`
}
