package repository

import (
	"github.com/confcfp/cfp-server/internal/models"
)

// ActivityRepository defines the interface for activity data access
type ActivityRepository interface {
	// Create stores an activity and its contents in one transaction
	Create(activity *models.Activity) error

	// FindByID finds an activity by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Activity, error)

	// FindBySlug finds an activity by slug with optional preloading
	FindBySlug(slug string, preload ...string) (*models.Activity, error)

	// ExistsBySlug reports whether the slug is already taken
	ExistsBySlug(slug string) (bool, error)

	// List returns every activity, newest first
	List() ([]models.Activity, error)
}

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	// FindByID finds a member by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Member, error)

	// FindByEmail finds a member by email with optional preloading
	FindByEmail(email string, preload ...string) (*models.Member, error)

	// FindByProvider finds the member owning a linked OAuth identity
	FindByProvider(provider, providerUserID string, preload ...string) (*models.Member, error)

	// CreateWithIdentity creates a member together with its preset
	// providers and links within a single transaction.
	CreateWithIdentity(member *models.Member) error

	// AddProvider links another OAuth identity to an existing member
	AddProvider(provider *models.MemberProvider) error

	// PermissionKeys returns the distinct permission keys granted to a member through roles
	PermissionKeys(memberID string) ([]string, error)
}

// RoleRepository defines the interface for role and permission data access
type RoleRepository interface {
	// UpsertPermission inserts the permission if its key is absent
	UpsertPermission(key, description string) (*models.Permission, error)

	// CreateRoleIfAbsent creates the role with the given permissions.
	// It reports false and leaves everything untouched when the name exists.
	CreateRoleIfAbsent(role *models.Role, permissionIDs []string) (bool, error)

	// GrantRole assigns a role to a member; granting twice is a no-op
	GrantRole(memberID, roleID string) error
}
