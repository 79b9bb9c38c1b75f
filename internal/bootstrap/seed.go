package bootstrap

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entity.User{},
		&entity.Blog{},
		&entity.Like{},
		&entity.Bookmark{},
		&entity.Comment{},
		&entity.CommentLike{},
		&entity.Follow{},
		&entity.Notification{},
		&entity.Report{},
		&entity.ContactRequest{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SeedAdminUser makes sure the configured admin account exists and holds
// the ADMIN role. The account links to Google on its first sign in.
func SeedAdminUser(db *gorm.DB, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	var user entity.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = entity.User{
			Email:    email,
			Name:     "Administrator",
			Role:     entity.RoleAdmin,
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Info().Str("email", email).Msg("admin user seeded")
		return nil
	case err != nil:
		return err
	}

	if user.Role == entity.RoleAdmin && user.IsActive {
		log.Debug().Str("email", email).Msg("admin user already exists, skipping seed")
		return nil
	}

	return db.Model(&user).Updates(map[string]any{
		"role":      entity.RoleAdmin,
		"is_active": true,
	}).Error
}
