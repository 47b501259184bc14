package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/api/middleware"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// kindStatus maps each conflict-class error kind to its business code.
var kindStatus = []struct {
	kind error
	code int
}{
	{pkgerrors.ErrInvalidState, response.CodeInvalidState},
	{pkgerrors.ErrSlotFull, response.CodeSlotFull},
	{pkgerrors.ErrAlreadyAssigned, response.CodeAlreadyAssigned},
	{pkgerrors.ErrNotAssigned, response.CodeNotAssigned},
	{pkgerrors.ErrConflict, response.CodeConflict},
	{pkgerrors.ErrReferenced, response.CodeReferenced},
	{pkgerrors.ErrOptimisticLock, response.CodeOptimisticLock},
}

// errorStatus resolves err to an HTTP status and business code.
func errorStatus(err error) (int, int) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, response.CodeUnauthenticated
	case errors.Is(err, pkgerrors.ErrValidation):
		return http.StatusBadRequest, response.CodeValidation
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound, response.CodeNotFound
	case errors.Is(err, pkgerrors.ErrForbidden):
		return http.StatusForbidden, response.CodeForbidden
	case errors.Is(err, pkgerrors.ErrInvalidTransition):
		return http.StatusConflict, response.CodeInvalidTransition
	}
	for _, k := range kindStatus {
		if errors.Is(err, k.kind) {
			return http.StatusConflict, k.code
		}
	}
	return http.StatusInternalServerError, response.CodeInternal
}

// handleError writes the reply for a service error. Field errors and the
// current state of a refused transition travel in data.
func handleError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	var ve *pkgerrors.ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithData(c, status, code, "validation failed", gin.H{"fields": ve.Fields})
		return
	}
	var te *pkgerrors.TransitionError
	if errors.As(err, &te) {
		response.ErrorWithData(c, status, code, err.Error(), gin.H{"current_status": te.From, "requested_status": te.To})
		return
	}
	var sf *pkgerrors.SlotFullError
	if errors.As(err, &sf) {
		response.ErrorWithData(c, status, code, err.Error(), gin.H{"slot_id": sf.SlotID, "capacity": sf.Capacity})
		return
	}
	response.Error(c, status, code, err.Error())
}

// bindJSON binds the body into req, writing a 400 (or 413) reply on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			middleware.AbortBodyTooLarge(c)
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// bindQuery binds query parameters into req, writing a 400 reply on failure.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest, "invalid query parameters", err.Error())
		return false
	}
	return true
}

// bulkResponse converts per-item outcomes into the reply body.
func bulkResponse(outcomes []service.BulkOutcome) *dto.BulkResponse {
	results := make([]dto.BulkResult, 0, len(outcomes))
	for _, o := range outcomes {
		r := dto.BulkResult{SubmissionID: o.SubmissionID, Success: o.Err == nil}
		if o.Err != nil {
			_, r.Code = errorStatus(o.Err)
			r.Error = o.Err.Error()
		} else {
			r.Status = string(o.Status)
		}
		results = append(results, r)
	}
	return dto.NewBulkResponse(results)
}
