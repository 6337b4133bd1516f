package repository

import (
	"testing"

	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRepository_UpsertPermissionIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoleRepository(db)

	first, err := repo.UpsertPermission("activity:create", "activity create permission")
	require.NoError(t, err)

	second, err := repo.UpsertPermission("activity:create", "changed")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "activity create permission", second.Description)

	var count int64
	db.Model(&models.Permission{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRoleRepository_CreateRoleIfAbsent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoleRepository(db)

	p, err := repo.UpsertPermission("activity:view", "")
	require.NoError(t, err)

	role := &models.Role{Name: models.RoleAdmin, Description: "admin"}
	created, err := repo.CreateRoleIfAbsent(role, []string{p.ID})
	require.NoError(t, err)
	assert.True(t, created)

	again := &models.Role{Name: models.RoleAdmin}
	created, err = repo.CreateRoleIfAbsent(again, []string{p.ID, "other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, role.ID, again.ID)

	var grants int64
	db.Model(&models.RolePermission{}).Count(&grants)
	assert.EqualValues(t, 1, grants)

	var roles int64
	db.Model(&models.Role{}).Count(&roles)
	assert.EqualValues(t, 1, roles)
}

func TestRoleRepository_GrantRoleTwice(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoleRepository(db)

	role := &models.Role{Name: models.RoleAdmin}
	_, err := repo.CreateRoleIfAbsent(role, nil)
	require.NoError(t, err)

	require.NoError(t, repo.GrantRole("member-1", role.ID))
	require.NoError(t, repo.GrantRole("member-1", role.ID))

	var count int64
	db.Model(&models.MemberRole{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
