package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Activity struct {
	ID                 string                      `gorm:"type:varchar(36);primarykey" json:"id"`
	Slug               string                      `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"`
	Name               string                      `gorm:"type:varchar(255);not null" json:"name"`
	StartAt            time.Time                   `gorm:"not null" json:"startAt"`
	EndAt              time.Time                   `gorm:"not null" json:"endAt"`
	ClosedAt           *time.Time                  `json:"closedAt"`
	SupportedLanguages datatypes.JSONSlice[string] `gorm:"not null" json:"supportedLanguages"`
	CreatedAt          time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time                   `json:"updatedAt"`

	// Relations
	Contents []ActivityContent `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"contents,omitempty"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	return ensureID(&a.ID)
}

type ActivityContent struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	ActivityID  string    `gorm:"type:varchar(36);not null;index" json:"activityId"`
	Lang        string    `gorm:"type:varchar(35);not null" json:"lang"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *ActivityContent) BeforeCreate(tx *gorm.DB) error {
	return ensureID(&c.ID)
}
