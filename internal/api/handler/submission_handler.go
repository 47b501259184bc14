package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// SubmissionHandler accreditation submissions: intake, review and resources
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
	assignmentSvc service.AssignmentService
}

// NewSubmissionHandler creates a SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService, assignmentSvc service.AssignmentService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc, assignmentSvc: assignmentSvc}
}

// ────────────────────── Public intake ──────────────────────

// CreateSubmission public application naming its module
// POST /api/v1/submissions
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.submissionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// Apply public application through a module's slug
// POST /api/v1/accreditation/apply/:slug
func (h *SubmissionHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.submissionSvc.Apply(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// RegisterVolunteer public volunteer registration
// POST /api/v1/volunteers/register
func (h *SubmissionHandler) RegisterVolunteer(c *gin.Context) {
	var req dto.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.submissionSvc.RegisterVolunteer(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// VolunteerStats public marshal/scorer head counts against targets
// GET /api/v1/volunteers/stats
func (h *SubmissionHandler) VolunteerStats(c *gin.Context) {
	stats, err := h.submissionSvc.VolunteerStats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, stats)
}

// ────────────────────── Review ──────────────────────

// ListSubmissions submissions visible to the caller, newest first
// GET /api/v1/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SubmissionListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.submissionSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetSubmission one submission with its history
// GET /api/v1/submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, sub)
}

// UpdateSubmission reviewer notes, attachments and form fields
// PATCH /api/v1/submissions/:id
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.submissionSvc.UpdateFields(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, sub)
}

// Transition moves one submission to a new status
// POST /api/v1/submissions/:id/transition
func (h *SubmissionHandler) Transition(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.submissionSvc.Transition(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, sub)
}

// TransitionMany applies one status to many submissions; each succeeds or fails alone
// POST /api/v1/submissions/transition
func (h *SubmissionHandler) TransitionMany(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.BulkTransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	outcomes := h.submissionSvc.TransitionMany(c.Request.Context(), actor, &req)
	response.OK(c, bulkResponse(outcomes))
}

// Stats counts by status and module over what the caller may see
// GET /api/v1/submissions/stats
func (h *SubmissionHandler) Stats(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	stats, err := h.submissionSvc.Stats(c.Request.Context(), actor, c.Query("module_type"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, stats)
}

// ────────────────────── Resources ──────────────────────

// AssignResources sets or clears location and access level
// PUT /api/v1/submissions/:id/resources
func (h *SubmissionHandler) AssignResources(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignResourcesRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.assignmentSvc.AssignResources(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, sub)
}

// AssignResourcesMany applies the same resources to many submissions
// POST /api/v1/submissions/resources
func (h *SubmissionHandler) AssignResourcesMany(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.BulkAssignResourcesRequest
	if !bindJSON(c, &req) {
		return
	}

	outcomes := h.assignmentSvc.AssignResourcesMany(c.Request.Context(), actor, &req)
	response.OK(c, bulkResponse(outcomes))
}
