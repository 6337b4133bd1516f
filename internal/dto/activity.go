package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/services"
)

// Layouts accepted besides RFC 3339 for activity dates. Values without an
// offset are read as UTC.
const (
	dateOnlyLayout = "2006-01-02"
	zonelessLayout = "2006-01-02T15:04:05.999999999"
)

// LowerString is trimmed and lower-cased while decoding, so validation sees the
// normalized value.
type LowerString string

func (s *LowerString) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = LowerString(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

// Timestamp decodes RFC 3339, zoneless ISO 8601 or YYYY-MM-DD strings as UTC times.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	for _, layout := range []string{time.RFC3339Nano, zonelessLayout, dateOnlyLayout} {
		if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

// CreateActivityRequest represents the request body for creating an activity
type CreateActivityRequest struct {
	Name               string        `json:"name" binding:"required,max=255"`
	Slug               LowerString   `json:"slug" binding:"required,slug"`
	StartAt            *Timestamp    `json:"startAt" binding:"required"`
	EndAt              *Timestamp    `json:"endAt" binding:"required"`
	ClosedAt           *Timestamp    `json:"closedAt"`
	SupportedLanguages []LowerString `json:"supportedLanguages" binding:"required,min=1,dive,locale"`
}

// ToInput converts the bound request into service input.
func (r CreateActivityRequest) ToInput() services.CreateActivityInput {
	input := services.CreateActivityInput{
		Name:               strings.TrimSpace(r.Name),
		Slug:               string(r.Slug),
		SupportedLanguages: make([]string, len(r.SupportedLanguages)),
	}
	if r.StartAt != nil {
		input.StartAt = r.StartAt.Time
	}
	if r.EndAt != nil {
		input.EndAt = r.EndAt.Time
	}
	if r.ClosedAt != nil {
		closedAt := r.ClosedAt.Time
		input.ClosedAt = &closedAt
	}
	for i, lang := range r.SupportedLanguages {
		input.SupportedLanguages[i] = string(lang)
	}
	return input
}

// ActivityContentDTO represents a localized content in API responses
type ActivityContentDTO struct {
	ID          string `json:"id"`
	Lang        string `json:"lang"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ActivityDTO represents an activity in API responses
type ActivityDTO struct {
	ID                 string               `json:"id"`
	Slug               string               `json:"slug"`
	Name               string               `json:"name"`
	StartAt            time.Time            `json:"startAt"`
	EndAt              time.Time            `json:"endAt"`
	ClosedAt           *time.Time           `json:"closedAt"`
	SupportedLanguages []string             `json:"supportedLanguages"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
	Contents           []ActivityContentDTO `json:"contents,omitempty"`
}

// ToActivityDTO converts an Activity model to ActivityDTO
func ToActivityDTO(activity models.Activity) ActivityDTO {
	dto := ActivityDTO{
		ID:                 activity.ID,
		Slug:               activity.Slug,
		Name:               activity.Name,
		StartAt:            activity.StartAt,
		EndAt:              activity.EndAt,
		ClosedAt:           activity.ClosedAt,
		SupportedLanguages: []string(activity.SupportedLanguages),
		CreatedAt:          activity.CreatedAt,
		UpdatedAt:          activity.UpdatedAt,
	}
	if dto.SupportedLanguages == nil {
		dto.SupportedLanguages = []string{}
	}

	if len(activity.Contents) > 0 {
		dto.Contents = make([]ActivityContentDTO, len(activity.Contents))
		for i, c := range activity.Contents {
			dto.Contents[i] = ActivityContentDTO{
				ID:          c.ID,
				Lang:        c.Lang,
				Title:       c.Title,
				Description: c.Description,
			}
		}
	}

	return dto
}

// ToActivityDTOs converts a list, never returning nil.
func ToActivityDTOs(activities []models.Activity) []ActivityDTO {
	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dtos[i] = ToActivityDTO(a)
	}
	return dtos
}
