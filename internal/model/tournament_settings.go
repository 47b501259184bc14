package model

import "time"

// TournamentSettings single-row tournament configuration, stored in tournament_settings.
type TournamentSettings struct {
	Singleton               bool       `gorm:"primaryKey;default:true"   json:"-"`
	RegistrationOpen        bool       `gorm:"not null"                  json:"registration_open"`
	ProAmMaxParticipants    int        `gorm:"not null;default:120"      json:"proam_max_participants"`
	DefaultSlotCapacity     int        `gorm:"not null;default:3"        json:"default_slot_capacity"`
	VolunteerMarshalMinimum int        `gorm:"not null;default:300"      json:"volunteer_marshal_minimum"`
	VolunteerScorerMaximum  int        `gorm:"not null;default:72"       json:"volunteer_scorer_maximum"`
	TournamentDate          *time.Time `json:"tournament_date,omitempty"`
	BaseModel
}

// TableName table name
func (TournamentSettings) TableName() string { return "tournament_settings" }
