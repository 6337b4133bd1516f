package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMember(email string) *models.Member {
	return &models.Member{
		Email:       email,
		DisplayName: "Octo",
		Providers: []models.MemberProvider{
			{Provider: models.ProviderGitHub, ProviderUserID: "42"},
		},
		Links: []models.MemberLink{
			{Type: models.ProviderGitHub, URL: "https://github.com/octo"},
			{Type: "twitter", URL: "https://twitter.com/octo"},
		},
	}
}

func TestMemberRepository_CreateWithIdentity(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMemberRepository(db)

	member := newMember("a@x.com")
	require.NoError(t, repo.CreateWithIdentity(member))
	require.NotEmpty(t, member.ID)

	found, err := repo.FindByEmail("a@x.com", "Providers", "Links")
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)
	require.Len(t, found.Providers, 1)
	assert.Equal(t, "42", found.Providers[0].ProviderUserID)
	assert.Len(t, found.Links, 2)

	byID, err := repo.FindByID(member.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestMemberRepository_FindByProvider(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMemberRepository(db)

	member := newMember("a@x.com")
	require.NoError(t, repo.CreateWithIdentity(member))
	other := newMember("b@x.com")
	other.Providers[0].ProviderUserID = "43"
	require.NoError(t, repo.CreateWithIdentity(other))

	found, err := repo.FindByProvider(models.ProviderGitHub, "42", "Providers")
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)
	assert.Equal(t, "a@x.com", found.Email)
	assert.Len(t, found.Providers, 1)

	found, err = repo.FindByProvider(models.ProviderGitHub, "43")
	require.NoError(t, err)
	assert.Equal(t, other.ID, found.ID)

	_, err = repo.FindByProvider(models.ProviderGitHub, "44")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByProvider("gitlab", "42")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMemberRepository_AddProvider(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMemberRepository(db)

	member := newMember("a@x.com")
	member.Providers = nil
	require.NoError(t, repo.CreateWithIdentity(member))

	require.NoError(t, repo.AddProvider(&models.MemberProvider{
		MemberID:       member.ID,
		Provider:       models.ProviderGitHub,
		ProviderUserID: "7",
	}))

	found, err := repo.FindByEmail("a@x.com", "Providers")
	require.NoError(t, err)
	assert.True(t, found.HasProvider(models.ProviderGitHub))

	// (provider, provider_user_id) is unique
	err = repo.AddProvider(&models.MemberProvider{
		MemberID:       member.ID,
		Provider:       models.ProviderGitHub,
		ProviderUserID: "7",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMemberRepository_DuplicateEmailLeavesNothingBehind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMemberRepository(db)

	require.NoError(t, repo.CreateWithIdentity(newMember("a@x.com")))

	dup := newMember("a@x.com")
	dup.Providers[0].ProviderUserID = "43"
	err := repo.CreateWithIdentity(dup)
	assert.ErrorIs(t, err, ErrCreateMember)

	var providers, links int64
	db.Model(&models.MemberProvider{}).Count(&providers)
	db.Model(&models.MemberLink{}).Count(&links)
	assert.EqualValues(t, 1, providers)
	assert.EqualValues(t, 2, links)
}

func TestMemberRepository_CreateRollsBackOnLinkFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "member_providers"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "member_links"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = NewMemberRepository(db).CreateWithIdentity(newMember("a@x.com"))

	assert.ErrorIs(t, err, ErrCreateMemberLinks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_PermissionKeys(t *testing.T) {
	db := testutil.NewDB(t)
	members := NewMemberRepository(db)
	roles := NewRoleRepository(db)

	member := newMember("a@x.com")
	require.NoError(t, members.CreateWithIdentity(member))

	keys, err := members.PermissionKeys(member.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)

	manage, err := roles.UpsertPermission("activity:manage", "activity manage permission")
	require.NoError(t, err)
	view, err := roles.UpsertPermission("activity:view", "activity view permission")
	require.NoError(t, err)

	admin := &models.Role{Name: models.RoleAdmin}
	_, err = roles.CreateRoleIfAbsent(admin, []string{manage.ID, view.ID})
	require.NoError(t, err)
	viewer := &models.Role{Name: "viewer"}
	_, err = roles.CreateRoleIfAbsent(viewer, []string{view.ID})
	require.NoError(t, err)

	require.NoError(t, roles.GrantRole(member.ID, admin.ID))
	require.NoError(t, roles.GrantRole(member.ID, viewer.ID))

	keys, err = members.PermissionKeys(member.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"activity:manage", "activity:view"}, keys)
}
