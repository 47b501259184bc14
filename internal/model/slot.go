package model

import (
	"time"

	"gorm.io/gorm"
)

// Slot is a capacity-bounded assignment target such as a Pro-Am tee time, stored in slots.
// Occupied mirrors the number of slot_assignments rows and is the value the
// capacity guard compares against.
type Slot struct {
	SlotID      string     `gorm:"type:uuid;primaryKey"                json:"slot_id"`
	ModuleType  ModuleType `gorm:"type:varchar(20);not null;default:''" json:"module_type,omitempty"` // empty: any module
	ResourceTag string     `gorm:"type:varchar(120);not null;default:''" json:"resource_tag"`        // e.g. professional's name
	TeeDate     *time.Time `json:"tee_date,omitempty"`
	TeeTime     string     `gorm:"type:varchar(5);not null;default:''"  json:"tee_time"` // HH:MM
	TeeNumber   int        `gorm:"not null;default:1"                   json:"tee_number"`
	Wave        string     `gorm:"type:varchar(16);not null;default:''" json:"wave,omitempty"`
	Capacity    int        `gorm:"not null"                             json:"capacity"`
	Occupied    int        `gorm:"not null;default:0"                   json:"occupied"`
	VersionedModel

	Assignments []SlotAssignment `gorm:"foreignKey:SlotID;references:SlotID" json:"-"`
}

// TableName table name
func (Slot) TableName() string { return "slots" }

// BeforeCreate assigns the id.
func (s *Slot) BeforeCreate(*gorm.DB) error {
	if s.SlotID == "" {
		s.SlotID = NewID()
	}
	return nil
}

// OccupantIDs returns the submission ids holding a seat, in assignment order.
func (s *Slot) OccupantIDs() []string {
	ids := make([]string, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		ids = append(ids, a.SubmissionID)
	}
	return ids
}

// Available seats left.
func (s *Slot) Available() int {
	if n := s.Capacity - s.Occupied; n > 0 {
		return n
	}
	return 0
}

// SlotAssignment binds one submission to one slot, stored in slot_assignments.
// The unique index on submission_id makes double-booking impossible at the store level.
type SlotAssignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey"                 json:"assignment_id"`
	SlotID       string    `gorm:"type:uuid;not null;index"             json:"slot_id"`
	SubmissionID string    `gorm:"type:uuid;not null;uniqueIndex"       json:"submission_id"`
	AssignedBy   string    `gorm:"type:varchar(64);not null"            json:"assigned_by"`
	AssignedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"assigned_at"`
}

// TableName table name
func (SlotAssignment) TableName() string { return "slot_assignments" }

// BeforeCreate assigns the id.
func (a *SlotAssignment) BeforeCreate(*gorm.DB) error {
	if a.AssignmentID == "" {
		a.AssignmentID = NewID()
	}
	return nil
}
