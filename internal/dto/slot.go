package dto

// ── slot DTOs ──

// CreateSlotRequest new tee time / pairing
type CreateSlotRequest struct {
	ModuleType  string `json:"module_type"`
	ResourceTag string `json:"resource_tag" binding:"omitempty,max=120"`
	TeeDate     string `json:"tee_date"     binding:"omitempty,datetime=2006-01-02"`
	TeeTime     string `json:"tee_time"     binding:"omitempty,datetime=15:04"`
	TeeNumber   int    `json:"tee_number"   binding:"omitempty,min=1,max=18"`
	Wave        string `json:"wave"         binding:"omitempty,max=16"`
	Capacity    int    `json:"capacity"     binding:"omitempty,min=1,max=100"`
}

// UpdateSlotRequest partial update
type UpdateSlotRequest struct {
	ModuleType  *string `json:"module_type"`
	ResourceTag *string `json:"resource_tag" binding:"omitempty,max=120"`
	TeeDate     *string `json:"tee_date"     binding:"omitempty,datetime=2006-01-02"`
	TeeTime     *string `json:"tee_time"     binding:"omitempty,datetime=15:04"`
	TeeNumber   *int    `json:"tee_number"   binding:"omitempty,min=1,max=18"`
	Wave        *string `json:"wave"         binding:"omitempty,max=16"`
	Capacity    *int    `json:"capacity"     binding:"omitempty,min=1,max=100"`
}

// SlotListRequest list query parameters
type SlotListRequest struct {
	ModuleType string `form:"module_type"`
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// AssignSlotRequest assign / unassign body
type AssignSlotRequest struct {
	SubmissionID string `json:"submission_id" binding:"required,uuid"`
}

// SlotResponse staff view of a slot
type SlotResponse struct {
	ID          string   `json:"slot_id"`
	ModuleType  string   `json:"module_type,omitempty"`
	ResourceTag string   `json:"resource_tag"`
	TeeDate     string   `json:"tee_date,omitempty"`
	TeeTime     string   `json:"tee_time"`
	TeeNumber   int      `json:"tee_number"`
	Wave        string   `json:"wave,omitempty"`
	Capacity    int      `json:"capacity"`
	Occupied    int      `json:"occupied"`
	Available   int      `json:"available"`
	OccupantIDs []string `json:"occupant_ids"`
	Version     int      `json:"version"`
}

// PublicTeeTimeResponse public tee sheet row; occupants are not disclosed
type PublicTeeTimeResponse struct {
	ID             string `json:"slot_id"`
	TeeDate        string `json:"tee_date,omitempty"`
	TeeTime        string `json:"tee_time"`
	TeeNumber      int    `json:"tee_number"`
	Professional   string `json:"professional,omitempty"`
	AvailableSpots int    `json:"available_spots"`
	BookedSpots    int    `json:"booked_spots"`
}
