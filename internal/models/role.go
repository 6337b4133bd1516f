package models

import (
	"time"

	"gorm.io/gorm"
)

const RoleAdmin = "admin"

type Permission struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Key         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	return ensureID(&p.ID)
}

type Role struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	return ensureID(&r.ID)
}

type RolePermission struct {
	RoleID       string    `gorm:"type:varchar(36);primarykey" json:"roleId"`
	PermissionID string    `gorm:"type:varchar(36);primarykey" json:"permissionId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MemberRole grants a role to a member.
type MemberRole struct {
	MemberID  string    `gorm:"type:varchar(36);primarykey" json:"memberId"`
	RoleID    string    `gorm:"type:varchar(36);primarykey" json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Permission{},
		&Role{},
		&RolePermission{},
		&Member{},
		&MemberProvider{},
		&MemberLink{},
		&MemberRole{},
		&Activity{},
		&ActivityContent{},
	}
}
