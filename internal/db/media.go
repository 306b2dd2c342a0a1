package db

import (
	"time"

	"gorm.io/gorm"
)

// Media is an uploaded file. Deleting only sets DeletedAt, and gorm skips
// soft-deleted rows in every regular query.
type Media struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FSRSlug   string         `gorm:"column:fsr_slug;size:64;not null;index:idx_media_fsr_path,priority:1" json:"fsr"`
	Name      string         `gorm:"not null" json:"name"`
	Path      string         `gorm:"not null;index:idx_media_fsr_path,priority:2" json:"path"`
	MimeType  string         `gorm:"not null" json:"mimeType"`
	Size      int64          `json:"size"`
	FSR       *FSR           `gorm:"foreignKey:FSRSlug;references:Slug;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

func (Media) TableName() string {
	return "media"
}
