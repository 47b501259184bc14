package model

import "gorm.io/gorm"

// Zone groups locations on the course, stored in zones.
type Zone struct {
	ZoneID   string `gorm:"type:uuid;primaryKey"                 json:"zone_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Name     string `gorm:"type:varchar(100);not null"           json:"name"`
	ZoneType string `gorm:"type:varchar(32);not null;default:''" json:"zone_type"`
	BaseModel

	Locations []Location `gorm:"foreignKey:ZoneID;references:ZoneID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName table name
func (Zone) TableName() string { return "zones" }

// BeforeCreate assigns the id.
func (z *Zone) BeforeCreate(*gorm.DB) error {
	if z.ZoneID == "" {
		z.ZoneID = NewID()
	}
	return nil
}

// Location is a posting such as a hole, gate or media centre, stored in locations.
type Location struct {
	LocationID   string  `gorm:"type:uuid;primaryKey"                 json:"location_id"`
	Code         string  `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Name         string  `gorm:"type:varchar(100);not null"           json:"name"`
	LocationType string  `gorm:"type:varchar(32);not null;default:''" json:"location_type"`
	ZoneID       *string `gorm:"type:uuid;index"                      json:"zone_id,omitempty"`
	BaseModel
}

// TableName table name
func (Location) TableName() string { return "locations" }

// BeforeCreate assigns the id.
func (l *Location) BeforeCreate(*gorm.DB) error {
	if l.LocationID == "" {
		l.LocationID = NewID()
	}
	return nil
}

// AccessLevel is an accreditation badge tier, stored in access_levels.
type AccessLevel struct {
	AccessLevelID string `gorm:"type:uuid;primaryKey"                 json:"access_level_id"`
	Code          string `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Name          string `gorm:"type:varchar(100);not null"           json:"name"`
	Tier          string `gorm:"type:varchar(32);not null;default:''" json:"tier"`
	BaseModel
}

// TableName table name
func (AccessLevel) TableName() string { return "access_levels" }

// BeforeCreate assigns the id.
func (a *AccessLevel) BeforeCreate(*gorm.DB) error {
	if a.AccessLevelID == "" {
		a.AccessLevelID = NewID()
	}
	return nil
}
