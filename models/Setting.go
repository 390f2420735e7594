package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Setting is a keyed configuration blob, e.g. key "dealership_hours".
type Setting struct {
	gorm.Model
	Key         string         `json:"key" gorm:"size:128;uniqueIndex"`
	Value       datatypes.JSON `json:"value"`
	Description string         `json:"description" gorm:"type:text"`
}
