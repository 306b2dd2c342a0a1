package db

import "time"

// FSR is a student association. The slug doubles as its public identifier.
type FSR struct {
	Slug           string `gorm:"primaryKey;size:64" json:"slug"`
	Name           string `gorm:"not null" json:"name"`
	PrimaryColor   string `gorm:"not null" json:"primaryColor"`
	SecondaryColor string `gorm:"not null" json:"secondaryColor"`
	LogoPath       string `json:"logoPath,omitempty"`

	UforaURL     string `json:"uforaUrl,omitempty"`
	FacebookURL  string `json:"facebookUrl,omitempty"`
	InstagramURL string `json:"instagramUrl,omitempty"`
	DiscordURL   string `json:"discordUrl,omitempty"`
	LinkedinURL  string `json:"linkedinUrl,omitempty"`
	TiktokURL    string `json:"tiktokUrl,omitempty"`
	GithubURL    string `json:"githubUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (FSR) TableName() string {
	return "fsrs"
}
