package services

import (
	"testing"
	"time"

	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/repository"
	"github.com/confcfp/cfp-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupActivityService(t *testing.T) (*ActivityService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewActivityService(repository.NewActivityRepository(db)), db
}

func demoInput() CreateActivityInput {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return CreateActivityInput{
		Name:               "Demo",
		Slug:               "demo-2025",
		StartAt:            start,
		EndAt:              start.Add(24 * time.Hour),
		SupportedLanguages: []string{"en-us"},
	}
}

func TestActivityService_Create(t *testing.T) {
	svc, _ := setupActivityService(t)

	activity, err := svc.Create(demoInput())
	require.NoError(t, err)

	assert.NotEmpty(t, activity.ID)
	assert.Equal(t, "demo-2025", activity.Slug)
	require.Len(t, activity.Contents, 1)
	assert.Equal(t, "en-us", activity.Contents[0].Lang)
	assert.Equal(t, "Demo (en-us)", activity.Contents[0].Title)
	assert.Equal(t, "", activity.Contents[0].Description)
}

func TestActivityService_CreateOneContentPerLanguage(t *testing.T) {
	svc, db := setupActivityService(t)

	input := demoInput()
	input.Slug = "  Multi-Lang "
	input.SupportedLanguages = []string{"zh-TW", "en-US", "ja"}

	activity, err := svc.Create(input)
	require.NoError(t, err)
	assert.Equal(t, "multi-lang", activity.Slug)
	assert.Equal(t, []string{"zh-tw", "en-us", "ja"}, []string(activity.SupportedLanguages))

	var contents []models.ActivityContent
	require.NoError(t, db.Where("activity_id = ?", activity.ID).Order("lang").Find(&contents).Error)
	require.Len(t, contents, 3)
	titles := []string{contents[0].Title, contents[1].Title, contents[2].Title}
	assert.ElementsMatch(t, []string{"Demo (zh-tw)", "Demo (en-us)", "Demo (ja)"}, titles)
}

func TestActivityService_CreateRejectsBadDateRange(t *testing.T) {
	svc, db := setupActivityService(t)

	for _, delta := range []time.Duration{0, -time.Hour} {
		input := demoInput()
		input.EndAt = input.StartAt.Add(delta)

		_, err := svc.Create(input)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
		assert.True(t, IsValidationError(err))
	}

	var count int64
	db.Model(&models.Activity{}).Count(&count)
	assert.Zero(t, count)
}

func TestActivityService_CreateRejectsInvalidInput(t *testing.T) {
	svc, _ := setupActivityService(t)

	cases := map[string]struct {
		mutate func(*CreateActivityInput)
		want   error
	}{
		"empty name":   {func(i *CreateActivityInput) { i.Name = " " }, ErrActivityNameRequired},
		"short slug":   {func(i *CreateActivityInput) { i.Slug = "ab" }, ErrInvalidSlug},
		"hyphen edge":  {func(i *CreateActivityInput) { i.Slug = "-demo" }, ErrInvalidSlug},
		"no languages": {func(i *CreateActivityInput) { i.SupportedLanguages = nil }, ErrNoLanguages},
		"bad language": {func(i *CreateActivityInput) { i.SupportedLanguages = []string{"en", "not a locale"} }, ErrInvalidLanguage},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			input := demoInput()
			tc.mutate(&input)
			_, err := svc.Create(input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestActivityService_CreateDuplicateSlug(t *testing.T) {
	svc, _ := setupActivityService(t)

	first, err := svc.Create(demoInput())
	require.NoError(t, err)

	second := demoInput()
	second.Name = "Other"
	_, err = svc.Create(second)
	assert.ErrorIs(t, err, ErrSlugTaken)

	unchanged, err := svc.FindOneByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo", unchanged.Name)
	assert.Len(t, unchanged.Contents, 1)
}

func TestActivityService_FindAllNewestFirst(t *testing.T) {
	svc, db := setupActivityService(t)

	first, err := svc.Create(demoInput())
	require.NoError(t, err)
	require.NoError(t, db.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	input := demoInput()
	input.Slug = "second"
	_, err = svc.Create(input)
	require.NoError(t, err)

	list, err := svc.FindAll()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Slug)
	assert.Equal(t, "demo-2025", list[1].Slug)
}

func TestActivityService_FindAllEmpty(t *testing.T) {
	svc, _ := setupActivityService(t)

	list, err := svc.FindAll()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestActivityService_FindOneByIDNotFound(t *testing.T) {
	svc, _ := setupActivityService(t)

	_, err := svc.FindOneByID("0190b6b4-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestActivityService_FindOneBySlug(t *testing.T) {
	svc, _ := setupActivityService(t)

	input := demoInput()
	input.SupportedLanguages = []string{"en-us", "zh-tw"}
	closed := input.StartAt.Add(-time.Hour)
	input.ClosedAt = &closed
	_, err := svc.Create(input)
	require.NoError(t, err)

	view, err := svc.FindOneBySlug("demo-2025", "")
	require.NoError(t, err)
	assert.Equal(t, "demo-2025", view.Slug)
	assert.Equal(t, []string{"en-us", "zh-tw"}, view.SupportedLanguages)
	require.NotNil(t, view.ClosedAt)
	assert.Len(t, view.Contents, 2)

	filtered, err := svc.FindOneBySlug("demo-2025", "ZH-TW")
	require.NoError(t, err)
	require.Len(t, filtered.Contents, 1)
	assert.Equal(t, ActivityContentView{Lang: "zh-tw", Title: "Demo (zh-tw)", Description: ""}, filtered.Contents[0])

	_, err = svc.FindOneBySlug("missing", "")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}
