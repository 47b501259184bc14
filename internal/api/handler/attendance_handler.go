package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// AttendanceHandler volunteer day sheets
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// MarkAttendance present / late / absent; re-marking a day overwrites it
// POST /api/v1/volunteers/attendance
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.attendanceSvc.Mark(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, rec)
}

// GetAttendance roster for one day
// GET /api/v1/volunteers/attendance/:date
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	roster, err := h.attendanceSvc.Roster(c.Request.Context(), actor, c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"date": c.Param("date"), "list": roster})
}
