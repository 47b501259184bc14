package model

import (
	"time"

	"gorm.io/gorm"
)

// Audit actions.
const (
	AuditCreateSubmission     = "create_submission"
	AuditUpdateSubmission     = "update_submission"
	AuditTransitionSubmission = "transition_submission"
	AuditReviewSubmission     = "review_submission"
	AuditApproveSubmission    = "approve_submission"
	AuditRejectSubmission     = "reject_submission"
	AuditActivateSubmission   = "activate_submission"
	AuditCompleteSubmission   = "complete_submission"
	AuditCancelSubmission     = "cancel_submission"
	AuditAssignSlot           = "assign_slot"
	AuditUnassignSlot         = "unassign_slot"
	AuditAssignResources      = "assign_resources"
	AuditCreateSlot           = "create_slot"
	AuditUpdateSlot           = "update_slot"
	AuditDeleteSlot           = "delete_slot"
	AuditCreateReference      = "create_reference"
	AuditUpdateReference      = "update_reference"
	AuditDeleteReference      = "delete_reference"
	AuditCreateUser           = "create_user"
	AuditApproveRole          = "approve_role"
	AuditRejectRole           = "reject_role"
	AuditDeactivateUser       = "deactivate_user"
	AuditUpdateSettings       = "update_settings"
	AuditSaveModule           = "save_module"
	AuditMarkAttendance       = "mark_attendance"
)

// TransitionAuditAction is the audit verb for moving a submission into to.
func TransitionAuditAction(to SubmissionStatus) string {
	switch to {
	case StatusUnderReview:
		return AuditReviewSubmission
	case StatusApproved:
		return AuditApproveSubmission
	case StatusRejected:
		return AuditRejectSubmission
	case StatusAssigned:
		return AuditAssignSlot
	case StatusActive:
		return AuditActivateSubmission
	case StatusCompleted:
		return AuditCompleteSubmission
	case StatusCancelled:
		return AuditCancelSubmission
	default:
		return AuditTransitionSubmission
	}
}

// Audit entity types.
const (
	EntitySubmission  = "submission"
	EntitySlot        = "slot"
	EntityLocation    = "location"
	EntityZone        = "zone"
	EntityAccessLevel = "access_level"
	EntityUser        = "user"
	EntitySettings    = "settings"
	EntityModule      = "accreditation_module"
)

// AuditLog is an append-only record of a mutating action, stored in audit_logs.
type AuditLog struct {
	LogID      string    `gorm:"type:uuid;primaryKey"                  json:"log_id"`
	CreatedAt  time.Time `gorm:"not null;index"                        json:"timestamp"`
	ActorID    string    `gorm:"type:varchar(64);not null;index"       json:"actor_id"`
	ActorRole  string    `gorm:"type:varchar(32);not null;default:''"  json:"actor_role,omitempty"`
	Action     string    `gorm:"type:varchar(64);not null"             json:"action"`
	EntityType string    `gorm:"type:varchar(32);not null"             json:"entity_type"`
	EntityID   string    `gorm:"type:varchar(64);not null"             json:"entity_id"`
	Details    string    `gorm:"type:text;not null;default:''"         json:"details,omitempty"`
}

// TableName table name
func (AuditLog) TableName() string { return "audit_logs" }

// BeforeCreate assigns the id.
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.LogID == "" {
		a.LogID = NewID()
	}
	return nil
}
