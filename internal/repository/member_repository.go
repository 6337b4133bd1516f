package repository

import (
	"errors"
	"fmt"

	"github.com/confcfp/cfp-server/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateMember is returned when creating the member row fails inside the login transaction.
	ErrCreateMember = errors.New("member repository: create member failed")
	// ErrCreateMemberProvider is returned when linking the provider identity fails.
	ErrCreateMemberProvider = errors.New("member repository: create member provider failed")
	// ErrCreateMemberLinks is returned when creating the social links fails.
	ErrCreateMemberLinks = errors.New("member repository: create member links failed")
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID with optional preloading
func (r *GormMemberRepository) FindByID(id string, preload ...string) (*models.Member, error) {
	var member models.Member
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail finds a member by email with optional preloading
func (r *GormMemberRepository) FindByEmail(email string, preload ...string) (*models.Member, error) {
	var member models.Member
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("email = ?", email).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByProvider finds a member through its (provider, provider_user_id) identity
func (r *GormMemberRepository) FindByProvider(provider, providerUserID string, preload ...string) (*models.Member, error) {
	var member models.Member
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	err := query.
		Joins("JOIN member_providers ON member_providers.member_id = members.id").
		Where("member_providers.provider = ? AND member_providers.provider_user_id = ?", provider, providerUserID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateWithIdentity creates the member, its providers and its links atomically.
func (r *GormMemberRepository) CreateWithIdentity(member *models.Member) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		providers := member.Providers
		links := member.Links

		if err := tx.Omit("Providers", "Links").Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateMember, err)
		}

		for i := range providers {
			providers[i].MemberID = member.ID
		}
		if len(providers) > 0 {
			if err := tx.Create(&providers).Error; err != nil {
				return fmt.Errorf("%w: %w", ErrCreateMemberProvider, err)
			}
		}

		for i := range links {
			links[i].MemberID = member.ID
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("%w: %w", ErrCreateMemberLinks, err)
			}
		}

		member.Providers = providers
		member.Links = links
		return nil
	})
}

// AddProvider links another OAuth identity to an existing member
func (r *GormMemberRepository) AddProvider(provider *models.MemberProvider) error {
	return r.db.Create(provider).Error
}

// PermissionKeys returns the distinct permission keys granted to a member through roles
func (r *GormMemberRepository) PermissionKeys(memberID string) ([]string, error) {
	var permissions []models.Permission
	err := r.db.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN member_roles ON member_roles.role_id = role_permissions.role_id").
		Where("member_roles.member_id = ?", memberID).
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(permissions))
	keys := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if _, ok := seen[p.Key]; ok {
			continue
		}
		seen[p.Key] = struct{}{}
		keys = append(keys, p.Key)
	}
	return keys, nil
}
