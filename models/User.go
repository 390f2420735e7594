package models

import "gorm.io/gorm"

// User is a dashboard account. The public booking flow is anonymous; only
// admins log in.
type User struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"size:256;uniqueIndex"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"type:varchar(20);default:admin;index"` // admin, super_admin
}
