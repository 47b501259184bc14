package dto

// ModuleResponse accreditation module
type ModuleResponse struct {
	ID          string `json:"module_id"`
	ModuleType  string `json:"module_type"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	IsPublic    bool   `json:"is_public"`
}

// CreateModuleRequest new module
type CreateModuleRequest struct {
	ModuleType  string `json:"module_type" binding:"required"`
	Name        string `json:"name"        binding:"required,min=2,max=120"`
	Slug        string `json:"slug"        binding:"required,min=2,max=64"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	IsPublic    *bool  `json:"is_public"`
}

// UpdateModuleRequest partial update
type UpdateModuleRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
	IsPublic    *bool   `json:"is_public"`
}
