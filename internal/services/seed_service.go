package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/confcfp/cfp-server/internal/constants"
	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PermissionKeys is the fixed permission list seeded at bootstrap.
var PermissionKeys = []string{
	constants.PermissionActivityCreate,
	constants.PermissionActivityEdit,
	constants.PermissionActivityDelete,
	constants.PermissionActivityView,
	constants.PermissionActivityManage,
}

// SeedService writes the static authorization data.
type SeedService struct {
	roleRepo   repository.RoleRepository
	memberRepo repository.MemberRepository
	log        *zap.Logger
}

// NewSeedService creates a new SeedService.
func NewSeedService(roleRepo repository.RoleRepository, memberRepo repository.MemberRepository, log *zap.Logger) *SeedService {
	return &SeedService{
		roleRepo:   roleRepo,
		memberRepo: memberRepo,
		log:        log,
	}
}

// SeedResult summarises a seed run.
type SeedResult struct {
	Permissions      int
	AdminRoleCreated bool
	GrantedAdmins    []string
}

// Seed upserts every permission and the admin role, then grants the role to
// the given member emails. Safe to run repeatedly.
func (s *SeedService) Seed(adminEmails []string) (*SeedResult, error) {
	permissionIDs := make([]string, 0, len(PermissionKeys))
	for _, key := range PermissionKeys {
		permission, err := s.roleRepo.UpsertPermission(key, permissionDescription(key))
		if err != nil {
			return nil, fmt.Errorf("failed to upsert permission %s: %w", key, err)
		}
		permissionIDs = append(permissionIDs, permission.ID)
	}
	s.log.Info("permissions seeded", zap.Int("count", len(permissionIDs)))

	admin := &models.Role{Name: models.RoleAdmin, Description: models.RoleAdmin}
	created, err := s.roleRepo.CreateRoleIfAbsent(admin, permissionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert admin role: %w", err)
	}
	if created {
		s.log.Info("admin role seeded with all permissions")
	}

	result := &SeedResult{
		Permissions:      len(permissionIDs),
		AdminRoleCreated: created,
	}

	for _, email := range adminEmails {
		member, err := s.memberRepo.FindByEmail(email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Warn("admin email has no member yet, skipping", zap.String("email", email))
				continue
			}
			return nil, fmt.Errorf("failed to find member %s: %w", email, err)
		}

		if err := s.roleRepo.GrantRole(member.ID, admin.ID); err != nil {
			return nil, fmt.Errorf("failed to grant admin role to %s: %w", email, err)
		}
		result.GrantedAdmins = append(result.GrantedAdmins, email)
	}

	return result, nil
}

// permissionDescription turns "activity:create" into "activity create permission".
func permissionDescription(key string) string {
	return strings.Replace(key, ":", " ", 1) + " permission"
}
