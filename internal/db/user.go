package db

import "time"

// User is identified by the UGent ID released by CAS.
type User struct {
	ID        string      `gorm:"primaryKey;size:32" json:"id"`
	FirstName string      `gorm:"not null" json:"firstName"`
	LastName  string      `gorm:"not null" json:"lastName"`
	Admins    []UserAdmin `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"userAdmins,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// UserAdmin grants a user admin rights over one FSR.
type UserAdmin struct {
	UserID    string    `gorm:"primaryKey;size:32;column:user_id" json:"userId"`
	FSRSlug   string    `gorm:"primaryKey;size:64;column:fsr_slug" json:"fsrSlug"`
	FSR       FSR       `gorm:"foreignKey:FSRSlug;references:Slug;constraint:OnDelete:CASCADE" json:"fsr"`
	CreatedAt time.Time `json:"createdAt"`
}
