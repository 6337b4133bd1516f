// Command seed writes the permission list and the admin role, then grants
// the role to every member listed in ADMIN_EMAILS. It is safe to rerun.
package main

import (
	"log"

	"github.com/confcfp/cfp-server/internal/config"
	"github.com/confcfp/cfp-server/internal/database"
	"github.com/confcfp/cfp-server/internal/logger"
	"github.com/confcfp/cfp-server/internal/repository"
	"github.com/confcfp/cfp-server/internal/services"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	seeder := services.NewSeedService(
		repository.NewRoleRepository(db),
		repository.NewMemberRepository(db),
		zlog,
	)

	result, err := seeder.Seed(cfg.AdminEmails)
	if err != nil {
		zlog.Fatal("Seeding failed", zap.Error(err))
	}

	zlog.Info("Seeding complete",
		zap.Int("permissions", result.Permissions),
		zap.Bool("admin_role_created", result.AdminRoleCreated),
		zap.Strings("granted_admins", result.GrantedAdmins),
	)
}
