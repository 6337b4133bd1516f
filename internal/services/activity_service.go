package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/repository"
	"github.com/confcfp/cfp-server/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrActivityNameRequired = errors.New("name is required")
	ErrInvalidSlug          = errors.New("slug must be 3-64 lowercase letters, numbers or single hyphens, and cannot start or end with a hyphen")
	ErrNoLanguages          = errors.New("at least one supported language must be provided")
	ErrInvalidLanguage      = errors.New("each language code must be a valid locale (e.g. zh-tw, en-us)")
	ErrInvalidDateRange     = errors.New("end date must be after start date")
	ErrSlugTaken            = errors.New("slug already exists")
	ErrActivityNotFound     = errors.New("activity not found")
)

// ActivityService handles activity business logic
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
	}
}

// CreateActivityInput represents input for creating an activity
type CreateActivityInput struct {
	Name               string
	Slug               string
	StartAt            time.Time
	EndAt              time.Time
	ClosedAt           *time.Time
	SupportedLanguages []string
}

// ActivityView is the public projection of an activity.
type ActivityView struct {
	Slug               string                `json:"slug"`
	StartAt            time.Time             `json:"startAt"`
	EndAt              time.Time             `json:"endAt"`
	ClosedAt           *time.Time            `json:"closedAt"`
	SupportedLanguages []string              `json:"supportedLanguages"`
	Contents           []ActivityContentView `json:"contents"`
}

// ActivityContentView is the public projection of a localized content.
type ActivityContentView struct {
	Lang        string `json:"lang"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create validates the input and stores the activity with one content per language.
func (s *ActivityService) Create(input CreateActivityInput) (*models.Activity, error) {
	input.Slug = validation.NormalizeSlug(input.Slug)
	input.SupportedLanguages = validation.NormalizeLanguages(input.SupportedLanguages)

	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	taken, err := s.activityRepo.ExistsBySlug(input.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	contents := make([]models.ActivityContent, len(input.SupportedLanguages))
	for i, lang := range input.SupportedLanguages {
		contents[i] = models.ActivityContent{
			Lang:        lang,
			Title:       fmt.Sprintf("%s (%s)", input.Name, lang),
			Description: "",
		}
	}

	activity := &models.Activity{
		Name:               input.Name,
		Slug:               input.Slug,
		StartAt:            input.StartAt,
		EndAt:              input.EndAt,
		ClosedAt:           input.ClosedAt,
		SupportedLanguages: datatypes.JSONSlice[string](input.SupportedLanguages),
		Contents:           contents,
	}

	if err := s.activityRepo.Create(activity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

// FindAll returns every activity, newest first
func (s *ActivityService) FindAll() ([]models.Activity, error) {
	activities, err := s.activityRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// FindOneByID returns an activity with all localized contents
func (s *ActivityService) FindOneByID(id string) (*models.Activity, error) {
	activity, err := s.activityRepo.FindByID(id, "Contents")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}
	return activity, nil
}

// FindOneBySlug returns the public view of an activity. A non-empty lang keeps
// only the content in that language. Closed or past activities are still returned.
func (s *ActivityService) FindOneBySlug(slug, lang string) (*ActivityView, error) {
	activity, err := s.activityRepo.FindBySlug(validation.NormalizeSlug(slug), "Contents")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}

	lang = strings.ToLower(strings.TrimSpace(lang))

	view := &ActivityView{
		Slug:               activity.Slug,
		StartAt:            activity.StartAt,
		EndAt:              activity.EndAt,
		ClosedAt:           activity.ClosedAt,
		SupportedLanguages: []string(activity.SupportedLanguages),
		Contents:           make([]ActivityContentView, 0, len(activity.Contents)),
	}
	for _, c := range activity.Contents {
		if lang != "" && c.Lang != lang {
			continue
		}
		view.Contents = append(view.Contents, ActivityContentView{
			Lang:        c.Lang,
			Title:       c.Title,
			Description: c.Description,
		})
	}

	return view, nil
}

func validateCreateInput(input CreateActivityInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrActivityNameRequired
	}
	if !validation.IsSlug(input.Slug) {
		return ErrInvalidSlug
	}
	if len(input.SupportedLanguages) == 0 {
		return ErrNoLanguages
	}
	for _, lang := range input.SupportedLanguages {
		if !validation.IsLocale(lang) {
			return ErrInvalidLanguage
		}
	}
	if !input.EndAt.After(input.StartAt) {
		return ErrInvalidDateRange
	}
	return nil
}

// IsValidationError reports whether err is an input problem that maps to 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrActivityNameRequired) ||
		errors.Is(err, ErrInvalidSlug) ||
		errors.Is(err, ErrNoLanguages) ||
		errors.Is(err, ErrInvalidLanguage) ||
		errors.Is(err, ErrInvalidDateRange)
}
