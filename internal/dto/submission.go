package dto

import "github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"

// ── submission DTOs ──

// CreateSubmissionRequest generic public create
type CreateSubmissionRequest struct {
	ModuleType  string         `json:"module_type" binding:"required"`
	FormData    model.FormData `json:"form_data"   binding:"required"`
	Attachments []string       `json:"attachments" binding:"omitempty,max=20,dive,url"`
}

// ApplyRequest body of apply-by-slug and volunteer registration
type ApplyRequest struct {
	FormData    model.FormData `json:"form_data"   binding:"required"`
	Attachments []string       `json:"attachments" binding:"omitempty,max=20,dive,url"`
}

// CreateSubmissionResponse public create reply
type CreateSubmissionResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

// SubmissionListRequest list query parameters
type SubmissionListRequest struct {
	PaginationRequest
	ModuleType string `form:"module_type"`
	Status     string `form:"status"`
}

// UpdateSubmissionRequest non-status patch
type UpdateSubmissionRequest struct {
	ReviewerNotes *string        `json:"reviewer_notes" binding:"omitempty,max=4000"`
	Attachments   *[]string      `json:"attachments"    binding:"omitempty,max=20,dive,url"`
	FormData      model.FormData `json:"form_data"`
}

// TransitionRequest single status change
type TransitionRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"  binding:"omitempty,max=4000"`
}

// BulkTransitionRequest status change applied per id
type BulkTransitionRequest struct {
	SubmissionIDs []string `json:"submission_ids" binding:"required,min=1,max=200,dive,required"`
	Status        string   `json:"status"         binding:"required"`
	Notes         *string  `json:"notes"          binding:"omitempty,max=4000"`
}

// AssignResourcesRequest sets location / access level references
type AssignResourcesRequest struct {
	LocationID    *string `json:"location_id"     binding:"omitempty,uuid"`
	AccessLevelID *string `json:"access_level_id" binding:"omitempty,uuid"`
}

// BulkAssignResourcesRequest applies AssignResourcesRequest per id
type BulkAssignResourcesRequest struct {
	SubmissionIDs []string `json:"submission_ids" binding:"required,min=1,max=200,dive,required"`
	AssignResourcesRequest
}

// StatusHistoryResponse one history entry
type StatusHistoryResponse struct {
	Status    string `json:"status"`
	ChangedAt string `json:"changed_at"`
	ChangedBy string `json:"changed_by"`
	Notes     string `json:"notes,omitempty"`
}

// SubmissionResponse full submission
type SubmissionResponse struct {
	ID                    string                  `json:"submission_id"`
	ModuleType            string                  `json:"module_type"`
	FormData              model.FormData          `json:"form_data"`
	Attachments           []string                `json:"attachments"`
	Status                string                  `json:"status"`
	AllowedTransitions    []string                `json:"allowed_transitions"`
	AssignedLocationID    *string                 `json:"assigned_location_id,omitempty"`
	AssignedAccessLevelID *string                 `json:"assigned_access_level_id,omitempty"`
	AssignedSlotID        *string                 `json:"assigned_slot_id,omitempty"`
	ReviewerNotes         string                  `json:"reviewer_notes"`
	Version               int                     `json:"version"`
	StatusHistory         []StatusHistoryResponse `json:"status_history"`
	CreatedAt             string                  `json:"created_at"`
	UpdatedAt             string                  `json:"updated_at"`
}

// SubmissionSummary list row
type SubmissionSummary struct {
	ID             string         `json:"submission_id"`
	ModuleType     string         `json:"module_type"`
	FormData       model.FormData `json:"form_data"`
	Status         string         `json:"status"`
	AssignedSlotID *string        `json:"assigned_slot_id,omitempty"`
	CreatedAt      string         `json:"created_at"`
}

// SubmissionStatsResponse reviewer dashboard counters
type SubmissionStatsResponse struct {
	Total    int64            `json:"total"`
	Pending  int64            `json:"pending"`
	Approved int64            `json:"approved"`
	Rejected int64            `json:"rejected"`
	ByStatus map[string]int64 `json:"by_status"`
	ByModule map[string]int64 `json:"by_module"`
}

// VolunteerRoleCount current count against a bound
type VolunteerRoleCount struct {
	Current int64 `json:"current"`
	Minimum int   `json:"minimum,omitempty"`
	Maximum int   `json:"maximum,omitempty"`
}

// VolunteerStatsResponse public volunteer recruitment progress
type VolunteerStatsResponse struct {
	Marshals VolunteerRoleCount `json:"marshals"`
	Scorers  VolunteerRoleCount `json:"scorers"`
	Total    int64              `json:"total"`
}
