package repository

import (
	"errors"

	"github.com/confcfp/cfp-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// UpsertPermission inserts the permission if its key is absent; existing rows are left as they are.
func (r *GormRoleRepository) UpsertPermission(key, description string) (*models.Permission, error) {
	var permission models.Permission
	err := r.db.
		Where(models.Permission{Key: key}).
		Attrs(models.Permission{Description: description}).
		FirstOrCreate(&permission).Error
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

// CreateRoleIfAbsent creates the role and its permission grants in one transaction.
func (r *GormRoleRepository) CreateRoleIfAbsent(role *models.Role, permissionIDs []string) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Role
		err := tx.Where(models.Role{Name: role.Name}).First(&existing).Error
		if err == nil {
			*role = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(role).Error; err != nil {
			return err
		}

		if len(permissionIDs) > 0 {
			grants := make([]models.RolePermission, len(permissionIDs))
			for i, id := range permissionIDs {
				grants[i] = models.RolePermission{RoleID: role.ID, PermissionID: id}
			}
			if err := tx.Create(&grants).Error; err != nil {
				return err
			}
		}

		created = true
		return nil
	})
	return created, err
}

// GrantRole assigns a role to a member; granting twice is a no-op
func (r *GormRoleRepository) GrantRole(memberID, roleID string) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.MemberRole{MemberID: memberID, RoleID: roleID}).Error
}
