package model

import (
	"time"

	"gorm.io/gorm"
)

// ModuleType is the applicant category a submission belongs to.
type ModuleType string

const (
	ModuleVolunteers  ModuleType = "volunteers"
	ModuleVendors     ModuleType = "vendors"
	ModuleMedia       ModuleType = "media"
	ModuleProAm       ModuleType = "pro_am"
	ModuleProcurement ModuleType = "procurement"
	ModuleJobs        ModuleType = "jobs"
)

// ModuleTypes lists every module in display order.
var ModuleTypes = []ModuleType{
	ModuleVolunteers, ModuleVendors, ModuleMedia, ModuleProAm, ModuleProcurement, ModuleJobs,
}

// IsValid reports whether m is a known module.
func (m ModuleType) IsValid() bool {
	for _, t := range ModuleTypes {
		if t == m {
			return true
		}
	}
	return false
}

// SubmissionStatus is a state of the review workflow.
type SubmissionStatus string

const (
	StatusDraft       SubmissionStatus = "draft"
	StatusSubmitted   SubmissionStatus = "submitted"
	StatusUnderReview SubmissionStatus = "under_review"
	StatusApproved    SubmissionStatus = "approved"
	StatusRejected    SubmissionStatus = "rejected"
	StatusAssigned    SubmissionStatus = "assigned"
	StatusActive      SubmissionStatus = "active"
	StatusCompleted   SubmissionStatus = "completed"
	StatusCancelled   SubmissionStatus = "cancelled"
)

// SubmissionStatuses lists every status in workflow order.
var SubmissionStatuses = []SubmissionStatus{
	StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected,
	StatusAssigned, StatusActive, StatusCompleted, StatusCancelled,
}

// transitions is the directed edge table. Statuses without an entry have no
// outgoing edges; draft is reserved and never reached by the workflow.
var transitions = map[SubmissionStatus][]SubmissionStatus{
	StatusSubmitted:   {StatusUnderReview, StatusApproved, StatusRejected, StatusCancelled},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:    {StatusAssigned, StatusCancelled},
	StatusAssigned:    {StatusActive, StatusCancelled},
	StatusActive:      {StatusCompleted},
}

// IsValid reports whether s is a known status.
func (s SubmissionStatus) IsValid() bool {
	for _, v := range SubmissionStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no way out.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether s → to is an edge.
func (s SubmissionStatus) CanTransitionTo(to SubmissionStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the outgoing edges of s.
func (s SubmissionStatus) NextStatuses() []SubmissionStatus {
	return append([]SubmissionStatus(nil), transitions[s]...)
}

// ActorPublic is the history actor for unauthenticated applicant actions.
const ActorPublic = "public"

// Submission is one application to an accreditation module, stored in submissions.
type Submission struct {
	SubmissionID          string           `gorm:"type:uuid;primaryKey"               json:"submission_id"`
	ModuleType            ModuleType       `gorm:"type:varchar(20);not null;index"    json:"module_type"`
	FormData              FormData         `gorm:"type:jsonb;not null"                json:"form_data"`
	Attachments           StringArray      `gorm:"type:jsonb;not null"                json:"attachments"`
	Status                SubmissionStatus `gorm:"type:varchar(20);not null;index"    json:"status"`
	AssignedLocationID    *string          `gorm:"type:uuid"                          json:"assigned_location_id,omitempty"`
	AssignedAccessLevelID *string          `gorm:"type:uuid"                          json:"assigned_access_level_id,omitempty"`
	AssignedSlotID        *string          `gorm:"type:uuid"                          json:"assigned_slot_id,omitempty"`
	ReviewerNotes         string           `gorm:"type:text;not null;default:''"      json:"reviewer_notes"`
	VersionedModel

	StatusHistory []StatusHistoryEntry `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"status_history,omitempty"`
}

// TableName table name
func (Submission) TableName() string { return "submissions" }

// BeforeCreate assigns the id.
func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.SubmissionID == "" {
		s.SubmissionID = NewID()
	}
	return nil
}

// StatusHistoryEntry is one append-only status change, stored in submission_status_history.
type StatusHistoryEntry struct {
	ID           uint64           `gorm:"primaryKey;autoIncrement"     json:"-"`
	SubmissionID string           `gorm:"type:uuid;not null;uniqueIndex:idx_history_submission_seq" json:"-"`
	Seq          int              `gorm:"not null;uniqueIndex:idx_history_submission_seq"           json:"seq"`
	Status       SubmissionStatus `gorm:"type:varchar(20);not null"    json:"status"`
	ChangedAt    time.Time        `gorm:"not null"                     json:"changed_at"`
	ChangedBy    string           `gorm:"type:varchar(64);not null"    json:"changed_by"`
	Notes        string           `gorm:"type:text;not null;default:''" json:"notes,omitempty"`
}

// TableName table name
func (StatusHistoryEntry) TableName() string { return "submission_status_history" }
