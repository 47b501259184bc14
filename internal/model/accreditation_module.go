package model

import "gorm.io/gorm"

// AccreditationModule is a public application form entry point, stored in accreditation_modules.
type AccreditationModule struct {
	ModuleID    string     `gorm:"type:uuid;primaryKey"                 json:"module_id"`
	ModuleType  ModuleType `gorm:"type:varchar(20);not null"            json:"module_type"`
	Name        string     `gorm:"type:varchar(120);not null"           json:"name"`
	Slug        string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"slug"`
	Description string     `gorm:"type:text;not null;default:''"        json:"description"`
	IsActive    bool       `gorm:"not null"                             json:"is_active"`
	IsPublic    bool       `gorm:"not null"                             json:"is_public"`
	BaseModel
}

// TableName table name
func (AccreditationModule) TableName() string { return "accreditation_modules" }

// BeforeCreate assigns the id.
func (m *AccreditationModule) BeforeCreate(*gorm.DB) error {
	if m.ModuleID == "" {
		m.ModuleID = NewID()
	}
	return nil
}
