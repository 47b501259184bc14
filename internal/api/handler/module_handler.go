package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// ModuleHandler accreditation module registry
type ModuleHandler struct {
	moduleSvc service.ModuleService
}

// NewModuleHandler creates a ModuleHandler
func NewModuleHandler(moduleSvc service.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleSvc: moduleSvc}
}

// ListPublicModules active modules open to the public
// GET /api/v1/accreditation/modules/public
func (h *ModuleHandler) ListPublicModules(c *gin.Context) {
	modules, err := h.moduleSvc.ListPublic(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": modules})
}

// ListModules every module, for staff
// GET /api/v1/accreditation/modules
func (h *ModuleHandler) ListModules(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	modules, err := h.moduleSvc.List(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": modules})
}

// CreateModule
// POST /api/v1/accreditation/modules
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateModuleRequest
	if !bindJSON(c, &req) {
		return
	}

	module, err := h.moduleSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, module)
}

// UpdateModule
// PUT /api/v1/accreditation/modules/:id
func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateModuleRequest
	if !bindJSON(c, &req) {
		return
	}

	module, err := h.moduleSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, module)
}
