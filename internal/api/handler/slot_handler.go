package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// SlotHandler capacity-bound slots and seat assignment
type SlotHandler struct {
	assignmentSvc service.AssignmentService
}

// NewSlotHandler creates a SlotHandler
func NewSlotHandler(assignmentSvc service.AssignmentService) *SlotHandler {
	return &SlotHandler{assignmentSvc: assignmentSvc}
}

// ListSlots
// GET /api/v1/slots
func (h *SlotHandler) ListSlots(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SlotListRequest
	if !bindQuery(c, &req) {
		return
	}

	slots, err := h.assignmentSvc.ListSlots(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// CreateSlot capacity defaults to the tournament setting
// POST /api/v1/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.assignmentSvc.CreateSlot(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, slot)
}

// GetSlot
// GET /api/v1/slots/:id
func (h *SlotHandler) GetSlot(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	slot, err := h.assignmentSvc.GetSlot(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, slot)
}

// UpdateSlot
// PUT /api/v1/slots/:id
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.assignmentSvc.UpdateSlot(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, slot)
}

// DeleteSlot refused while any seat is taken
// DELETE /api/v1/slots/:id
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.DeleteSlot(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Assign seats an approved submission in the slot
// POST /api/v1/slots/:id/assign
func (h *SlotHandler) Assign(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.assignmentSvc.Assign(c.Request.Context(), actor, c.Param("id"), req.SubmissionID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, slot)
}

// Unassign frees the seat and returns the submission to approved
// POST /api/v1/slots/:id/unassign
func (h *SlotHandler) Unassign(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.assignmentSvc.Unassign(c.Request.Context(), actor, c.Param("id"), req.SubmissionID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, slot)
}

// PublicTeeTimes Pro-Am tee sheet without applicant details
// GET /api/v1/pro-am/tee-times/public
func (h *SlotHandler) PublicTeeTimes(c *gin.Context) {
	var req dto.SlotListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.assignmentSvc.PublicTeeTimes(c.Request.Context(), req.Date)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// PublicTeeSheetICS the public tee sheet as an iCalendar feed
// GET /api/v1/pro-am/tee-times/public.ics
func (h *SlotHandler) PublicTeeSheetICS(c *gin.Context) {
	var req dto.SlotListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.assignmentSvc.PublicTeeTimes(c.Request.Context(), req.Date)
	if err != nil {
		handleError(c, err)
		return
	}

	body, err := service.TeeSheetCalendar(list, time.Now())
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="pro-am-tee-sheet.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
