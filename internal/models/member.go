package models

import (
	"time"

	"gorm.io/gorm"
)

// ProviderGitHub is the provider name stored for GitHub identities and links.
const ProviderGitHub = "github"

type Member struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName  string    `gorm:"type:varchar(255);not null" json:"displayName"`
	AvatarURL    string    `gorm:"type:varchar(512)" json:"avatarUrl"`
	Organization *string   `gorm:"type:varchar(255)" json:"organization"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	Location     *string   `gorm:"type:varchar(255)" json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Providers []MemberProvider `gorm:"foreignKey:MemberID" json:"providers,omitempty"`
	Links     []MemberLink     `gorm:"foreignKey:MemberID" json:"links,omitempty"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	return ensureID(&m.ID)
}

// HasProvider reports whether a linked identity for provider is loaded.
func (m *Member) HasProvider(provider string) bool {
	for _, p := range m.Providers {
		if p.Provider == provider {
			return true
		}
	}
	return false
}

// MemberProvider is one linked OAuth identity. (provider, provider_user_id) is unique.
type MemberProvider struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`
	MemberID       string    `gorm:"type:varchar(36);not null;index" json:"memberId"`
	Provider       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_member_providers_identity" json:"provider"`
	ProviderUserID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_member_providers_identity" json:"providerUserId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (p *MemberProvider) BeforeCreate(tx *gorm.DB) error {
	return ensureID(&p.ID)
}

type MemberLink struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	MemberID  string    `gorm:"type:varchar(36);not null;index" json:"memberId"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	URL       string    `gorm:"type:varchar(512);not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *MemberLink) BeforeCreate(tx *gorm.DB) error {
	return ensureID(&l.ID)
}
