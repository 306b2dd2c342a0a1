package db

import "time"

// Page is a bilingual content page. Each language has its own path, unique
// within the FSR, and its body lives in the content store.
type Page struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FSRSlug   string    `gorm:"column:fsr_slug;size:64;not null;uniqueIndex:idx_pages_fsr_path_en,priority:1;uniqueIndex:idx_pages_fsr_path_nl,priority:1" json:"fsr"`
	PathEN    string    `gorm:"column:path_en;not null;uniqueIndex:idx_pages_fsr_path_en,priority:2" json:"path_en"`
	TitleEN   string    `gorm:"column:title_en;not null" json:"title_en"`
	PathNL    string    `gorm:"column:path_nl;not null;uniqueIndex:idx_pages_fsr_path_nl,priority:2" json:"path_nl"`
	TitleNL   string    `gorm:"column:title_nl;not null" json:"title_nl"`
	FSR       *FSR      `gorm:"foreignKey:FSRSlug;references:Slug;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
