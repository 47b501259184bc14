package dto

// ── reference data DTOs (zones, locations, access levels) ──

// CreateReferenceRequest create body. Type is the zone_type / location_type / tier tag.
type CreateReferenceRequest struct {
	Code   string  `json:"code"    binding:"required,min=2,max=20"`
	Name   string  `json:"name"    binding:"required,min=2,max=100"`
	Type   string  `json:"type"    binding:"omitempty,max=32"`
	ZoneID *string `json:"zone_id" binding:"omitempty,uuid"`
}

// UpdateReferenceRequest partial update
type UpdateReferenceRequest struct {
	Code   *string `json:"code"    binding:"omitempty,min=2,max=20"`
	Name   *string `json:"name"    binding:"omitempty,min=2,max=100"`
	Type   *string `json:"type"    binding:"omitempty,max=32"`
	ZoneID *string `json:"zone_id" binding:"omitempty,uuid"`
}

// ReferenceResponse any reference entity
type ReferenceResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	ZoneID    *string `json:"zone_id,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
