package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// ReferenceHandler locations, zones and access levels. Each method returns the
// handler for one reference kind so the three route groups share the code.
type ReferenceHandler struct {
	referenceSvc service.ReferenceService
}

// NewReferenceHandler creates a ReferenceHandler
func NewReferenceHandler(referenceSvc service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceSvc: referenceSvc}
}

// List
// GET /api/v1/{locations|zones|access-levels}
func (h *ReferenceHandler) List(kind service.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := MustGetActor(c)
		if !ok {
			return
		}

		list, err := h.referenceSvc.List(c.Request.Context(), actor, kind)
		if err != nil {
			handleError(c, err)
			return
		}

		response.OK(c, gin.H{"list": list})
	}
}

// Create
// POST /api/v1/{locations|zones|access-levels}
func (h *ReferenceHandler) Create(kind service.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := MustGetActor(c)
		if !ok {
			return
		}

		var req dto.CreateReferenceRequest
		if !bindJSON(c, &req) {
			return
		}

		ref, err := h.referenceSvc.Create(c.Request.Context(), actor, kind, &req)
		if err != nil {
			handleError(c, err)
			return
		}

		response.Created(c, ref)
	}
}

// Update
// PUT /api/v1/{locations|zones|access-levels}/:id
func (h *ReferenceHandler) Update(kind service.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := MustGetActor(c)
		if !ok {
			return
		}

		var req dto.UpdateReferenceRequest
		if !bindJSON(c, &req) {
			return
		}

		ref, err := h.referenceSvc.Update(c.Request.Context(), actor, kind, c.Param("id"), &req)
		if err != nil {
			handleError(c, err)
			return
		}

		response.OK(c, ref)
	}
}

// Delete refused while a submission or location still points at the entity
// DELETE /api/v1/{locations|zones|access-levels}/:id
func (h *ReferenceHandler) Delete(kind service.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := MustGetActor(c)
		if !ok {
			return
		}

		if err := h.referenceSvc.Delete(c.Request.Context(), actor, kind, c.Param("id")); err != nil {
			handleError(c, err)
			return
		}

		response.OK(c, nil)
	}
}
