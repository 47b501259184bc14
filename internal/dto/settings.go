package dto

// SettingsResponse tournament settings
type SettingsResponse struct {
	RegistrationOpen        bool   `json:"registration_open"`
	ProAmMaxParticipants    int    `json:"proam_max_participants"`
	DefaultSlotCapacity     int    `json:"default_slot_capacity"`
	VolunteerMarshalMinimum int    `json:"volunteer_marshal_minimum"`
	VolunteerScorerMaximum  int    `json:"volunteer_scorer_maximum"`
	TournamentDate          string `json:"tournament_date,omitempty"`
	UpdatedAt               string `json:"updated_at"`
}

// UpdateSettingsRequest partial update
type UpdateSettingsRequest struct {
	RegistrationOpen        *bool   `json:"registration_open"`
	ProAmMaxParticipants    *int    `json:"proam_max_participants"    binding:"omitempty,min=1,max=1000"`
	DefaultSlotCapacity     *int    `json:"default_slot_capacity"     binding:"omitempty,min=1,max=100"`
	VolunteerMarshalMinimum *int    `json:"volunteer_marshal_minimum" binding:"omitempty,min=0,max=10000"`
	VolunteerScorerMaximum  *int    `json:"volunteer_scorer_maximum"  binding:"omitempty,min=0,max=10000"`
	TournamentDate          *string `json:"tournament_date"           binding:"omitempty,datetime=2006-01-02"`
}
