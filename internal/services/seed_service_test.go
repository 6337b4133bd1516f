package services

import (
	"testing"

	"github.com/confcfp/cfp-server/internal/constants"
	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/repository"
	"github.com/confcfp/cfp-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedService_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	memberRepo := repository.NewMemberRepository(db)
	svc := NewSeedService(repository.NewRoleRepository(db), memberRepo, zap.NewNop())

	admin := &models.Member{Email: "admin@example.com", DisplayName: "Admin"}
	require.NoError(t, db.Create(admin).Error)

	first, err := svc.Seed([]string{"admin@example.com", "ghost@example.com"})
	require.NoError(t, err)
	assert.Equal(t, len(PermissionKeys), first.Permissions)
	assert.True(t, first.AdminRoleCreated)
	assert.Equal(t, []string{"admin@example.com"}, first.GrantedAdmins)

	second, err := svc.Seed([]string{"admin@example.com"})
	require.NoError(t, err)
	assert.False(t, second.AdminRoleCreated)

	var permissions, roles, grants, memberRoles int64
	db.Model(&models.Permission{}).Count(&permissions)
	db.Model(&models.Role{}).Count(&roles)
	db.Model(&models.RolePermission{}).Count(&grants)
	db.Model(&models.MemberRole{}).Count(&memberRoles)
	assert.Equal(t, int64(len(PermissionKeys)), permissions)
	assert.Equal(t, int64(1), roles)
	assert.Equal(t, int64(len(PermissionKeys)), grants)
	assert.Equal(t, int64(1), memberRoles)

	keys, err := memberRepo.PermissionKeys(admin.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, PermissionKeys, keys)
	assert.Contains(t, keys, constants.PermissionActivityManage)
}

func TestSeedService_KeepsExistingDescriptions(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.Permission{Key: constants.PermissionActivityView, Description: "custom"}).Error)

	svc := NewSeedService(repository.NewRoleRepository(db), repository.NewMemberRepository(db), zap.NewNop())
	_, err := svc.Seed(nil)
	require.NoError(t, err)

	var view, create models.Permission
	require.NoError(t, db.Where(models.Permission{Key: constants.PermissionActivityView}).First(&view).Error)
	require.NoError(t, db.Where(models.Permission{Key: constants.PermissionActivityCreate}).First(&create).Error)
	assert.Equal(t, "custom", view.Description)
	assert.Equal(t, "activity create permission", create.Description)
}
